// Package utils provides type conversion helpers shared across the phone-verify packages.
//
// The helpers convert between Go zero values / nil pointers and database/sql
// null types so repository code can scan and bind nullable columns without
// repeating the Valid bookkeeping. All functions are stateless and thread-safe.
//
// # SQL Null Conversions
//
//	import "github.com/tendant/phone-verify/pkg/utils"
//
//	// Empty strings map to NULL on the way in
//	ns := utils.ToNullString(account.Phone)
//
//	// NULL maps back to the zero value on the way out
//	account.Phone = utils.FromNullString(ns)
//
//	// Nil *time.Time maps to NULL and back
//	nt := utils.ToNullTime(account.ConfirmedAt)
//	account.ConfirmedAt = utils.FromNullTime(nt)
package utils
