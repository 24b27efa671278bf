/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import "testing"

func TestNewPagedResult(t *testing.T) {
	t.Run("with token", func(t *testing.T) {
		page := NewPagedResult([]string{"a", "b"}, "token123")
		if page.IsFinalPage {
			t.Error("a page with a continuation token must not be final")
		}
		if page.ContinuationToken != "token123" {
			t.Errorf("unexpected token: %q", page.ContinuationToken)
		}
		if len(page.Items) != 2 {
			t.Errorf("expected 2 items, got %d", len(page.Items))
		}
	})

	t.Run("without token", func(t *testing.T) {
		page := NewPagedResult([]string{"a"}, "")
		if !page.IsFinalPage {
			t.Error("a page without a continuation token must be final")
		}
	})

	t.Run("empty final page", func(t *testing.T) {
		page := NewPagedResult[string](nil, "")
		if !page.IsFinalPage || len(page.Items) != 0 {
			t.Errorf("expected empty final page, got %+v", page)
		}
	})
}
