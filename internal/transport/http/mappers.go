package http

import (
	"time"

	"github.com/discope/booking-service/internal/app/booking/contracts"
	"github.com/discope/booking-service/internal/app/booking/queries/get_booking"
)

type bookingResponse struct {
	BookingID  string  `json:"booking_id"`
	Code       int64   `json:"code"`
	PaymentRef string  `json:"payment_ref"`
	DisplayRef string  `json:"display_ref"`
	CustomerID string  `json:"customer_id"`
	CenterID   string  `json:"center_id"`
	Status     string  `json:"status"`
	DateFrom   string  `json:"date_from,omitempty"`
	DateTo     string  `json:"date_to,omitempty"`
	Total      float64 `json:"total"`
	Price      float64 `json:"price"`
	IsPriceTbc bool    `json:"is_price_tbc"`
	IsLocked   bool    `json:"is_locked"`
	NbPers     int     `json:"nb_pers"`
	GroupCount int     `json:"group_count"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  string  `json:"updated_at"`

	Groups []groupResponse `json:"groups,omitempty"`
}

type groupResponse struct {
	GroupID     string  `json:"group_id"`
	Name        string  `json:"name"`
	GroupType   string  `json:"group_type"`
	DateFrom    string  `json:"date_from"`
	DateTo      string  `json:"date_to"`
	NbPers      int     `json:"nb_pers"`
	NbChildren  int     `json:"nb_children"`
	Total       float64 `json:"total"`
	Price       float64 `json:"price"`
	FareBenefit float64 `json:"fare_benefit"`
}

type consumptionResponse struct {
	ConsumptionID string `json:"consumption_id"`
	GroupID       string `json:"group_id"`
	Type          string `json:"type"`
	Date          string `json:"date"`
	ScheduleFrom  string `json:"schedule_from"`
	ScheduleTo    string `json:"schedule_to"`
	RentalUnitID  string `json:"rental_unit_id,omitempty"`
	ProductID     string `json:"product_id"`
	Qty           int    `json:"qty"`
	Description   string `json:"description,omitempty"`
}

func toBookingDTO(dto *contracts.BookingDTO) bookingResponse {
	resp := bookingResponse{
		BookingID:  dto.BookingID,
		Code:       dto.Code,
		PaymentRef: dto.PaymentRef,
		DisplayRef: dto.DisplayRef,
		CustomerID: dto.CustomerID,
		CenterID:   dto.CenterID,
		Status:     dto.Status,
		Total:      dto.Total,
		Price:      dto.Price,
		IsPriceTbc: dto.IsPriceTbc,
		IsLocked:   dto.IsLocked,
		NbPers:     dto.NbPers,
		GroupCount: dto.GroupCount,
		CreatedAt:  dto.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  dto.UpdatedAt.Format(time.RFC3339),
	}
	if !dto.DateFrom.IsZero() {
		resp.DateFrom = dto.DateFrom.Format(dateLayout)
	}
	if !dto.DateTo.IsZero() {
		resp.DateTo = dto.DateTo.Format(dateLayout)
	}
	return resp
}

func toBookingResponse(resp *get_booking.Response) bookingResponse {
	out := toBookingDTO(resp.Booking)
	for _, g := range resp.Groups {
		out.Groups = append(out.Groups, groupResponse{
			GroupID:     g.GroupID,
			Name:        g.Name,
			GroupType:   g.GroupType,
			DateFrom:    g.DateFrom.Format(dateLayout),
			DateTo:      g.DateTo.Format(dateLayout),
			NbPers:      g.NbPers,
			NbChildren:  g.NbChildren,
			Total:       g.Total,
			Price:       g.Price,
			FareBenefit: g.FareBenefit,
		})
	}
	return out
}
