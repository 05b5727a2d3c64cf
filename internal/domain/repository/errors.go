package repository

import "errors"

var (
	// ErrSourceUnavailable means the primary factor series cannot be fetched.
	// Fatal: no run can proceed without the 3-factor table.
	ErrSourceUnavailable = errors.New("factor data source unavailable")

	// ErrNoReturns means the return view yielded zero rows for the requested
	// tickers and range. Fatal: nothing to regress.
	ErrNoReturns = errors.New("no monthly returns found - run the upstream pipeline first")

	// ErrNoFactors means the canonical factor table is empty after
	// provisioning. Fatal.
	ErrNoFactors = errors.New("no factors found in store")

	// ErrNoOverlap means one asset's aligned sample is empty. Non-fatal: the
	// asset is skipped and the batch continues.
	ErrNoOverlap = errors.New("no overlap between returns and factors")
)
