package orders

import "context"

type OrderReader interface {
	ListOrders(ctx context.Context) ([]OrderView, error)
	ListItems(ctx context.Context, orderID int64) ([]ItemView, error)
}

type QueryService struct{ Orders OrderReader }

// ListAll returns every order, newest first, each with its items. Any query
// failure aborts the whole listing.
func (s *QueryService) ListAll(ctx context.Context) ([]OrderView, error) {
	views, err := s.Orders.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	if views == nil {
		views = []OrderView{}
	}
	for i := range views {
		items, err := s.Orders.ListItems(ctx, views[i].OrderID)
		if err != nil {
			return nil, err
		}
		if items == nil {
			items = []ItemView{}
		}
		views[i].Items = items
	}
	return views, nil
}
