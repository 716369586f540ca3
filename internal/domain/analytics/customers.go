// internal/domain/analytics/customers.go
package analytics

import (
	"context"
	"sort"
	"time"

	"github.com/mrokonuzzaan040/tech-pinik/internal/domain/order"
	"github.com/shopspring/decimal"
)

// CustomerListRequest represents customer directory query parameters
type CustomerListRequest struct {
	Page      int    `form:"page,default=1"`
	Limit     int    `form:"limit,default=20"`
	Search    string `form:"search"`
	SortBy    string `form:"sortBy,default=createdAt"`
	SortOrder string `form:"sortOrder,default=desc"`
}

// Customer is a (name, phone) identity aggregated from its orders
type Customer struct {
	ID             string                `json:"id"`
	Name           string                `json:"name"`
	Phone          string                `json:"phone"`
	Email          string                `json:"email,omitempty"`
	Address        order.ShippingAddress `json:"address"`
	TotalOrders    int                   `json:"totalOrders"`
	TotalSpent     decimal.Decimal       `json:"totalSpent"`
	FirstOrderDate time.Time             `json:"firstOrderDate"`
	LastOrderDate  time.Time             `json:"lastOrderDate"`
}

// CustomerPagination represents pagination information
type CustomerPagination struct {
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
	Total       int `json:"total"`
	Limit       int `json:"limit"`
}

// CustomerList is one page of the directory
type CustomerList struct {
	Customers  []Customer         `json:"customers"`
	Pagination CustomerPagination `json:"pagination"`
}

// GetCustomers groups the ledger by customer key
func (s *Service) GetCustomers(ctx context.Context, req CustomerListRequest) (*CustomerList, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 20
	}

	orders, err := s.ledger.FindForCustomers(ctx, req.Search)
	if err != nil {
		return nil, err
	}

	customers := GroupCustomers(orders)
	sortCustomers(customers, req.SortBy, req.SortOrder != "asc")

	total := len(customers)
	start := (req.Page - 1) * req.Limit
	if start > total {
		start = total
	}
	end := start + req.Limit
	if end > total {
		end = total
	}

	return &CustomerList{
		Customers: customers[start:end],
		Pagination: CustomerPagination{
			CurrentPage: req.Page,
			TotalPages:  (total + req.Limit - 1) / req.Limit,
			Total:       total,
			Limit:       req.Limit,
		},
	}, nil
}

// GroupCustomers folds orders into one Customer per key, in first-seen order.
// Address and email come from the earliest order that has them.
func GroupCustomers(orders []order.Order) []Customer {
	index := make(map[order.CustomerKey]int)
	var customers []Customer

	for _, o := range orders {
		key := o.CustomerKey()
		i, ok := index[key]
		if !ok {
			customers = append(customers, Customer{
				ID:             key.Name + "|" + key.Phone,
				Name:           key.Name,
				Phone:          key.Phone,
				Address:        o.ShippingAddress,
				TotalSpent:     decimal.Zero,
				FirstOrderDate: o.CreatedAt,
				LastOrderDate:  o.CreatedAt,
			})
			i = len(customers) - 1
			index[key] = i
		}

		c := &customers[i]
		c.TotalOrders++
		c.TotalSpent = c.TotalSpent.Add(o.Total)
		if c.Email == "" {
			c.Email = o.Email
		}
		if o.CreatedAt.Before(c.FirstOrderDate) {
			c.FirstOrderDate = o.CreatedAt
		}
		if o.CreatedAt.After(c.LastOrderDate) {
			c.LastOrderDate = o.CreatedAt
		}
	}
	return customers
}

func sortCustomers(customers []Customer, sortBy string, desc bool) {
	less := func(a, b Customer) bool {
		switch sortBy {
		case "name":
			return a.Name < b.Name
		case "totalOrders":
			return a.TotalOrders < b.TotalOrders
		case "totalSpent":
			return a.TotalSpent.LessThan(b.TotalSpent)
		case "lastOrderDate":
			return a.LastOrderDate.Before(b.LastOrderDate)
		default:
			return a.FirstOrderDate.Before(b.FirstOrderDate)
		}
	}

	sort.SliceStable(customers, func(i, j int) bool {
		if desc {
			return less(customers[j], customers[i])
		}
		return less(customers[i], customers[j])
	})
}
