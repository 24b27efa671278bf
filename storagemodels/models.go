/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

// PagedResult carries one page of a multi-page read along with the opaque
// continuation token marking where the next page starts. ContinuationToken
// is empty exactly when IsFinalPage is true.
type PagedResult[T any] struct {
	// Items holds the records of this page, in storage order.
	Items []T
	// ContinuationToken resumes the read after this page. Treat it as an
	// opaque blob; its layout is not stable across releases.
	ContinuationToken string
	// IsFinalPage reports that no further pages exist.
	IsFinalPage bool
}

// NewPagedResult builds a PagedResult, deriving IsFinalPage from the token so
// the two can never disagree.
func NewPagedResult[T any](items []T, continuationToken string) *PagedResult[T] {
	return &PagedResult[T]{
		Items:             items,
		ContinuationToken: continuationToken,
		IsFinalPage:       continuationToken == "",
	}
}
