package rma

import (
	"gorm.io/gorm"
)

// reporterConditions builds the WHERE fragment restricting rows to the
// caller's own submissions. Matching is by verified email or by name; the
// name arm exists because anonymous submissions carry no account link.
func reporterConditions(caller *Identity) (string, []interface{}) {
	return "reported_by_email = ? OR reported_by = ?", []interface{}{caller.Email, caller.Name}
}

// VisibleTo returns a query scope for what the caller may observe or
// mutate. Administrators are unrestricted; authenticated users see their
// own records; an anonymous caller sees nothing through this scope (the
// contact-filter path below is the only anonymous read).
func VisibleTo(caller *Identity) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		if caller.IsAdmin() {
			return tx
		}
		if caller != nil {
			cond, args := reporterConditions(caller)
			return tx.Where(cond, args...)
		}
		return tx.Where("1 = 0")
	}
}

// ContactFilter identifies an anonymous reporter by the contact details
// they supplied at submission time.
type ContactFilter struct {
	Email        string
	Phone        string
	SerialNumber string
}

// IsEmpty reports whether no identifying field was supplied
func (f ContactFilter) IsEmpty() bool {
	return f.Email == "" && f.Phone == "" && f.SerialNumber == ""
}

// ContactScope returns a query scope for anonymous reads. At least one of
// email, phone or serial number is required so callers cannot enumerate
// the whole collection.
func ContactScope(f ContactFilter) (func(*gorm.DB) *gorm.DB, error) {
	if f.IsEmpty() {
		return nil, newValidationError("filter", "provide email, phone, or serialNumber to fetch your RMAs")
	}
	return func(tx *gorm.DB) *gorm.DB {
		if f.Email != "" {
			tx = tx.Where("reported_by_email = ?", f.Email)
		}
		if f.Phone != "" {
			tx = tx.Where("reported_by_phone = ?", f.Phone)
		}
		if f.SerialNumber != "" {
			tx = tx.Where("serial_number = ?", f.SerialNumber)
		}
		return tx
	}, nil
}
