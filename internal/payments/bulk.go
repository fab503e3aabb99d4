package payments

import (
	"context"
	"errors"
	"sync"

	"github.com/harborline/vaultpay-go/internal/gateway"
)

// CustomerBatchResult is one element of a bulk-create response.
type CustomerBatchResult struct {
	Customer *gateway.Customer
	Err      error
}

// CreateCustomers creates the inputs concurrently and returns one result
// per input, in input order. Elements fail independently; earlier
// successes are not rolled back when a later element fails.
func (s *Service) CreateCustomers(ctx context.Context, inputs []CustomerInput) []CustomerBatchResult {
	results := make([]CustomerBatchResult, len(inputs))
	var wg sync.WaitGroup
	for i, input := range inputs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := s.CreateCustomer(ctx, input)
			if err != nil {
				results[i] = CustomerBatchResult{Err: err}
				return
			}
			customer := res.Customer
			results[i] = CustomerBatchResult{Customer: &customer}
		}()
	}
	wg.Wait()
	return results
}

// DeleteCustomers attempts every deletion and joins real failures into
// one error. Ids that were never created delete as no-ops.
func (s *Service) DeleteCustomers(ctx context.Context, ids []string) error {
	errs := make([]error, len(ids))
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = s.DeleteCustomer(ctx, id)
		}()
	}
	wg.Wait()
	return errors.Join(errs...)
}
