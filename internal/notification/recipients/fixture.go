package recipients

import "context"

// FixtureResolver serves canned audiences. Used by tests and local
// development; production wiring always uses PostgresResolver.
type FixtureResolver struct {
	AdminIDs       []string
	ProductVendors map[string][]string
	OrderVendors   map[string][]string

	// Err, when set, is returned by every method.
	Err error
}

func (f *FixtureResolver) Admins(context.Context) ([]string, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	return f.AdminIDs, nil
}

func (f *FixtureResolver) VendorsForProduct(_ context.Context, productID string) ([]string, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	return f.ProductVendors[productID], nil
}

func (f *FixtureResolver) VendorsForOrder(_ context.Context, orderID string) ([]string, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	return f.OrderVendors[orderID], nil
}
