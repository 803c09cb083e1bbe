package set_line_product

import (
	"context"

	"github.com/google/uuid"

	"github.com/discope/booking-service/internal/app/booking/contracts"
	"github.com/discope/booking-service/internal/app/booking/domain"
	"github.com/discope/booking-service/internal/app/booking/services"
	"github.com/discope/booking-service/internal/app/booking/usecases/replan"
	"github.com/discope/booking-service/internal/pkg/clock"
)

// Request adds a product line to a group, or replaces the product of an
// existing line when LineID is set.
type Request struct {
	BookingID string
	GroupID   string
	LineID    string
	ProductID string
}

// Interactor handles the set line product use case.
type Interactor struct {
	replanner *replan.Replanner
	catalog   contracts.Catalog
	clock     clock.Clock
}

// NewInteractor creates a new set line product interactor.
func NewInteractor(replanner *replan.Replanner, catalog contracts.Catalog, clk clock.Clock) *Interactor {
	return &Interactor{replanner: replanner, catalog: catalog, clock: clk}
}

// Execute attaches the product and replays the derivation cascade. A pack
// product also installs its component lines and the group-level price
// adapters.
func (i *Interactor) Execute(ctx context.Context, req *Request) error {
	ws, err := i.replanner.Load(ctx, req.BookingID)
	if err != nil {
		return err
	}

	var gs *services.GroupState
	for _, candidate := range ws.State.Groups {
		if candidate.Group.ID() == req.GroupID {
			gs = candidate
			break
		}
	}
	if gs == nil {
		return domain.ErrGroupNotFound
	}
	if gs.Group.IsLocked() {
		return domain.ErrGroupLocked
	}

	product, err := i.catalog.Product(ctx, req.ProductID)
	if err != nil {
		return err
	}

	if req.LineID != "" {
		if err := i.replaceProduct(ctx, gs, req.LineID, product); err != nil {
			return err
		}
	} else if product.IsPack {
		if err := i.installPack(ctx, ws, gs, product); err != nil {
			return err
		}
	} else {
		if err := i.appendLine(ctx, ws, gs, product); err != nil {
			return err
		}
	}

	return i.replanner.ReplanAndCommit(ctx, ws)
}

func (i *Interactor) replaceProduct(ctx context.Context, gs *services.GroupState, lineID string, product *domain.Product) error {
	for _, line := range gs.Lines {
		if line.ID() == lineID {
			productModel, err := i.catalog.ProductModel(ctx, product.ProductModelID)
			if err != nil {
				return err
			}
			return line.SetProduct(product.ID, productModel.ID)
		}
	}
	return domain.ErrLineNotFound
}

func (i *Interactor) appendLine(ctx context.Context, ws *replan.Workspace, gs *services.GroupState, product *domain.Product) error {
	productModel, err := i.catalog.ProductModel(ctx, product.ProductModelID)
	if err != nil {
		return err
	}

	line := domain.NewBookingLine(
		uuid.New().String(),
		ws.State.Booking.ID(),
		gs.Group.ID(),
		product.ID,
		productModel.ID,
		len(gs.Lines),
		i.clock,
	)
	gs.Lines = append(gs.Lines, line)
	return nil
}

// installPack marks the group as packed and appends one line per
// component. Component prices fold into the pack price through the
// group-level adapters the discount step generates.
func (i *Interactor) installPack(ctx context.Context, ws *replan.Workspace, gs *services.GroupState, pack *domain.Product) error {
	gs.Group.SetPack(pack.ID)

	for _, packLine := range pack.PackLines {
		child, err := i.catalog.Product(ctx, packLine.ChildProductID)
		if err != nil {
			return err
		}
		childModel, err := i.catalog.ProductModel(ctx, child.ProductModelID)
		if err != nil {
			return err
		}

		line := domain.NewBookingLine(
			uuid.New().String(),
			ws.State.Booking.ID(),
			gs.Group.ID(),
			child.ID,
			childModel.ID,
			len(gs.Lines),
			i.clock,
		)
		if packLine.HasOwnQty {
			if err := line.SetOwnQty(packLine.OwnQty); err != nil {
				return err
			}
		}
		gs.Lines = append(gs.Lines, line)
	}
	return nil
}
