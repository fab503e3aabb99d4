package payments

import (
	"context"
	"time"

	"github.com/harborline/vaultpay-go/internal/gateway"
)

// CreateCustomer registers a customer under the caller-supplied id. When
// the input carries a nonce, the resulting customer comes back with the
// vaulted payment method attached.
func (s *Service) CreateCustomer(ctx context.Context, input CustomerInput) (_ *CustomerResult, err error) {
	const op = "create_customer"
	start := time.Now()
	defer func() { s.observe(op, start, err) }()

	if err := validate.Struct(input); err != nil {
		return nil, invalidInput(op, err)
	}
	customer, gwErr := s.gw.CreateCustomer(ctx, customerRequest(input))
	if gwErr != nil {
		return nil, classify(op, gwErr)
	}
	s.logger.Info("customer created", "customer_id", customer.ID)
	return &CustomerResult{Success: true, Customer: *customer}, nil
}

// FindCustomer fails with a not_found error when the id was never
// created or has been deleted; it never returns an empty success.
func (s *Service) FindCustomer(ctx context.Context, id string) (_ *CustomerResult, err error) {
	const op = "find_customer"
	start := time.Now()
	defer func() { s.observe(op, start, err) }()

	if id == "" {
		return nil, &Error{Type: ErrValidation, Op: op, Message: "customer id is required"}
	}
	customer, gwErr := s.gw.FindCustomer(ctx, id)
	if gwErr != nil {
		return nil, classify(op, gwErr)
	}
	return &CustomerResult{Success: true, Customer: *customer}, nil
}

// UpdateCustomer merges the patch into an existing customer and returns
// the merged record.
func (s *Service) UpdateCustomer(ctx context.Context, id string, patch CustomerPatch) (_ *CustomerResult, err error) {
	const op = "update_customer"
	start := time.Now()
	defer func() { s.observe(op, start, err) }()

	if id == "" {
		return nil, &Error{Type: ErrValidation, Op: op, Message: "customer id is required"}
	}
	if err := validate.Struct(patch); err != nil {
		return nil, invalidInput(op, err)
	}
	customer, gwErr := s.gw.UpdateCustomer(ctx, id, patchRequest(patch))
	if gwErr != nil {
		return nil, classify(op, gwErr)
	}
	return &CustomerResult{Success: true, Customer: *customer}, nil
}

// FindOneAndUpdate applies patch to an existing customer. With upsert
// set, a missing customer is created and then patched, so the result
// always reflects the patch; without it the miss surfaces as not_found.
func (s *Service) FindOneAndUpdate(ctx context.Context, id string, patch CustomerPatch, upsert bool) (_ *CustomerResult, err error) {
	const op = "find_one_and_update_customer"
	start := time.Now()
	defer func() { s.observe(op, start, err) }()

	if id == "" {
		return nil, &Error{Type: ErrValidation, Op: op, Message: "customer id is required"}
	}
	if err := validate.Struct(patch); err != nil {
		return nil, invalidInput(op, err)
	}

	if _, findErr := s.gw.FindCustomer(ctx, id); findErr != nil {
		cerr := classify(op, findErr)
		if !IsNotFound(cerr) || !upsert {
			return nil, cerr
		}
		if _, createErr := s.gw.CreateCustomer(ctx, gateway.CustomerRequest{ID: id}); createErr != nil {
			// A concurrent upsert may have won the create; proceed to the
			// update when the id exists now.
			if cerr := classify(op, createErr); !IsDuplicate(cerr) {
				return nil, cerr
			}
		}
	}

	customer, updateErr := s.gw.UpdateCustomer(ctx, id, patchRequest(patch))
	if updateErr != nil {
		return nil, classify(op, updateErr)
	}
	return &CustomerResult{Success: true, Customer: *customer}, nil
}

// DeleteCustomer removes one customer and its vaulted payment methods.
// Deleting an id that does not exist is a no-op, so cleanup can re-run
// safely between test runs.
func (s *Service) DeleteCustomer(ctx context.Context, id string) (err error) {
	const op = "delete_customer"
	start := time.Now()
	defer func() { s.observe(op, start, err) }()

	if id == "" {
		return &Error{Type: ErrValidation, Op: op, Message: "customer id is required"}
	}
	if gwErr := s.gw.DeleteCustomer(ctx, id); gwErr != nil {
		cerr := classify(op, gwErr)
		if IsNotFound(cerr) {
			return nil
		}
		return cerr
	}
	return nil
}
