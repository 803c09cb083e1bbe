// Package http exposes the booking back office over REST. Handlers bind
// the JSON surface, delegate to usecases and queries, and translate
// domain errors into status codes.
package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/discope/booking-service/internal/app/booking/domain"
	"github.com/discope/booking-service/internal/app/booking/queries/get_booking"
	"github.com/discope/booking-service/internal/app/booking/queries/list_bookings"
	"github.com/discope/booking-service/internal/app/booking/queries/list_consumptions"
	"github.com/discope/booking-service/internal/app/booking/usecases/create_booking"
	"github.com/discope/booking-service/internal/app/booking/usecases/delete_booking"
	"github.com/discope/booking-service/internal/app/booking/usecases/set_line_product"
	"github.com/discope/booking-service/internal/app/booking/usecases/update_age_ranges"
	"github.com/discope/booking-service/internal/app/booking/usecases/update_booking_status"
	"github.com/discope/booking-service/internal/app/booking/usecases/update_group_dates"
	"github.com/discope/booking-service/internal/app/booking/usecases/update_line_qty"
)

const dateLayout = "2006-01-02"

// BookingHandler routes the booking back office API.
type BookingHandler struct {
	createBooking *create_booking.Interactor
	deleteBooking *delete_booking.Interactor
	updateStatus  *update_booking_status.Interactor
	updateDates   *update_group_dates.Interactor
	updateAges    *update_age_ranges.Interactor
	setProduct    *set_line_product.Interactor
	updateQty     *update_line_qty.Interactor

	getBooking       *get_booking.Query
	listBookings     *list_bookings.Query
	listConsumptions *list_consumptions.Query
}

// NewBookingHandler creates a new booking HTTP handler.
func NewBookingHandler(
	createBooking *create_booking.Interactor,
	deleteBooking *delete_booking.Interactor,
	updateStatus *update_booking_status.Interactor,
	updateDates *update_group_dates.Interactor,
	updateAges *update_age_ranges.Interactor,
	setProduct *set_line_product.Interactor,
	updateQty *update_line_qty.Interactor,
	getBooking *get_booking.Query,
	listBookings *list_bookings.Query,
	listConsumptions *list_consumptions.Query,
) *BookingHandler {
	return &BookingHandler{
		createBooking:    createBooking,
		deleteBooking:    deleteBooking,
		updateStatus:     updateStatus,
		updateDates:      updateDates,
		updateAges:       updateAges,
		setProduct:       setProduct,
		updateQty:        updateQty,
		getBooking:       getBooking,
		listBookings:     listBookings,
		listConsumptions: listConsumptions,
	}
}

// RegisterRoutes mounts the API under /api/v1.
func (h *BookingHandler) RegisterRoutes(e *echo.Echo) {
	bookings := e.Group("/api/v1/bookings")
	bookings.POST("", h.CreateBooking)
	bookings.GET("", h.ListBookings)
	bookings.GET("/:id", h.GetBooking)
	bookings.DELETE("/:id", h.DeleteBooking)
	bookings.PATCH("/:id/status", h.UpdateStatus)
	bookings.GET("/:id/consumptions", h.ListConsumptions)

	bookings.PATCH("/:id/groups/:group_id/dates", h.UpdateGroupDates)
	bookings.PUT("/:id/groups/:group_id/age-ranges", h.UpdateAgeRanges)
	bookings.POST("/:id/groups/:group_id/lines", h.SetLineProduct)
	bookings.PATCH("/:id/lines/:line_id/qty", h.UpdateLineQty)
}

type createBookingRequest struct {
	CustomerID string `json:"customer_id"`
	CenterID   string `json:"center_id"`
	OfficeID   string `json:"office_id"`
	GroupName  string `json:"group_name"`
	GroupType  string `json:"group_type"`
	DateFrom   string `json:"date_from"`
	RateClass  string `json:"rate_class_id"`
}

// CreateBooking handles POST /api/v1/bookings.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	var req createBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.CustomerID == "" || req.CenterID == "" || req.OfficeID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "customer_id, center_id and office_id are required")
	}

	in := &create_booking.Request{
		CustomerID: req.CustomerID,
		CenterID:   req.CenterID,
		OfficeID:   req.OfficeID,
		GroupName:  req.GroupName,
		GroupType:  req.GroupType,
		RateClass:  req.RateClass,
	}
	if req.DateFrom != "" {
		from, err := time.Parse(dateLayout, req.DateFrom)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid date_from")
		}
		in.DateFrom = from
	}

	resp, err := h.createBooking.Execute(c.Request().Context(), in)
	if err != nil {
		return mapDomainError(err)
	}

	return c.JSON(http.StatusCreated, map[string]any{
		"booking_id":  resp.BookingID,
		"code":        resp.Code,
		"payment_ref": resp.PaymentRef,
	})
}

// GetBooking handles GET /api/v1/bookings/:id.
func (h *BookingHandler) GetBooking(c echo.Context) error {
	resp, err := h.getBooking.Execute(c.Request().Context(), &get_booking.Request{
		BookingID: c.Param("id"),
	})
	if err != nil {
		return mapDomainError(err)
	}
	return c.JSON(http.StatusOK, toBookingResponse(resp))
}

// ListBookings handles GET /api/v1/bookings.
func (h *BookingHandler) ListBookings(c echo.Context) error {
	req := &list_bookings.Request{
		CenterID: c.QueryParam("center_id"),
		Status:   c.QueryParam("status"),
	}
	if err := echo.QueryParamsBinder(c).Int("page_size", &req.PageSize).BindError(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid page_size")
	}

	dtos, err := h.listBookings.Execute(c.Request().Context(), req)
	if err != nil {
		return mapDomainError(err)
	}

	items := make([]bookingResponse, 0, len(dtos))
	for _, dto := range dtos {
		items = append(items, toBookingDTO(dto))
	}
	return c.JSON(http.StatusOK, map[string]any{"bookings": items})
}

// DeleteBooking handles DELETE /api/v1/bookings/:id.
func (h *BookingHandler) DeleteBooking(c echo.Context) error {
	err := h.deleteBooking.Execute(c.Request().Context(), &delete_booking.Request{
		BookingID: c.Param("id"),
	})
	if err != nil {
		return mapDomainError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles PATCH /api/v1/bookings/:id/status.
func (h *BookingHandler) UpdateStatus(c echo.Context) error {
	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Status == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "status is required")
	}

	err := h.updateStatus.Execute(c.Request().Context(), &update_booking_status.Request{
		BookingID: c.Param("id"),
		Status:    domain.BookingStatus(req.Status),
	})
	if err != nil {
		return mapDomainError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

type updateGroupDatesRequest struct {
	DateFrom string `json:"date_from"`
	DateTo   string `json:"date_to"`
	TimeFrom string `json:"time_from"`
	TimeTo   string `json:"time_to"`
}

// UpdateGroupDates handles PATCH /api/v1/bookings/:id/groups/:group_id/dates.
func (h *BookingHandler) UpdateGroupDates(c echo.Context) error {
	var req updateGroupDatesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	from, err := time.Parse(dateLayout, req.DateFrom)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid date_from")
	}
	to, err := time.Parse(dateLayout, req.DateTo)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid date_to")
	}

	in := &update_group_dates.Request{
		BookingID: c.Param("id"),
		GroupID:   c.Param("group_id"),
		DateFrom:  from,
		DateTo:    to,
	}
	if req.TimeFrom != "" {
		if in.TimeFrom, err = domain.ParseTimeOfDay(req.TimeFrom); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid time_from")
		}
	}
	if req.TimeTo != "" {
		if in.TimeTo, err = domain.ParseTimeOfDay(req.TimeTo); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid time_to")
		}
	}

	if err := h.updateDates.Execute(c.Request().Context(), in); err != nil {
		return mapDomainError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

type ageRangeInput struct {
	AgeRangeID string `json:"age_range_id"`
	Qty        int    `json:"qty"`
}

type updateAgeRangesRequest struct {
	Ranges []ageRangeInput `json:"age_ranges"`
}

// UpdateAgeRanges handles PUT /api/v1/bookings/:id/groups/:group_id/age-ranges.
func (h *BookingHandler) UpdateAgeRanges(c echo.Context) error {
	var req updateAgeRangesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if len(req.Ranges) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "age_ranges must not be empty")
	}

	in := &update_age_ranges.Request{
		BookingID: c.Param("id"),
		GroupID:   c.Param("group_id"),
	}
	for _, r := range req.Ranges {
		in.Ranges = append(in.Ranges, update_age_ranges.RangeInput{
			AgeRangeID: r.AgeRangeID,
			Qty:        r.Qty,
		})
	}

	if err := h.updateAges.Execute(c.Request().Context(), in); err != nil {
		return mapDomainError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

type setLineProductRequest struct {
	LineID    string `json:"line_id"`
	ProductID string `json:"product_id"`
}

// SetLineProduct handles POST /api/v1/bookings/:id/groups/:group_id/lines.
// Without a line_id the product lands on a fresh line.
func (h *BookingHandler) SetLineProduct(c echo.Context) error {
	var req setLineProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.ProductID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "product_id is required")
	}

	err := h.setProduct.Execute(c.Request().Context(), &set_line_product.Request{
		BookingID: c.Param("id"),
		GroupID:   c.Param("group_id"),
		LineID:    req.LineID,
		ProductID: req.ProductID,
	})
	if err != nil {
		return mapDomainError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

type updateLineQtyRequest struct {
	Qty     *int   `json:"qty"`
	QtyVars string `json:"qty_vars"`
}

// UpdateLineQty handles PATCH /api/v1/bookings/:id/lines/:line_id/qty.
func (h *BookingHandler) UpdateLineQty(c echo.Context) error {
	var req updateLineQtyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Qty == nil && req.QtyVars == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "qty or qty_vars is required")
	}

	in := &update_line_qty.Request{
		BookingID: c.Param("id"),
		LineID:    c.Param("line_id"),
		QtyVars:   req.QtyVars,
	}
	if req.Qty != nil {
		in.Qty = *req.Qty
		in.SetQty = true
	}

	if err := h.updateQty.Execute(c.Request().Context(), in); err != nil {
		return mapDomainError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListConsumptions handles GET /api/v1/bookings/:id/consumptions.
func (h *BookingHandler) ListConsumptions(c echo.Context) error {
	dtos, err := h.listConsumptions.Execute(c.Request().Context(), &list_consumptions.Request{
		BookingID: c.Param("id"),
	})
	if err != nil {
		return mapDomainError(err)
	}

	items := make([]consumptionResponse, 0, len(dtos))
	for _, dto := range dtos {
		items = append(items, consumptionResponse{
			ConsumptionID: dto.ConsumptionID,
			GroupID:       dto.GroupID,
			Type:          dto.Type,
			Date:          dto.Date.Format(dateLayout),
			ScheduleFrom:  dto.ScheduleFrom,
			ScheduleTo:    dto.ScheduleTo,
			RentalUnitID:  dto.RentalUnitID,
			ProductID:     dto.ProductID,
			Qty:           dto.Qty,
			Description:   dto.Description,
		})
	}
	return c.JSON(http.StatusOK, map[string]any{"consumptions": items})
}
