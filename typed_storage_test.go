/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package tablestore

import (
	"fmt"
	"testing"

	"github.com/suparena/tablestore/datastore"
	"github.com/suparena/tablestore/datastore/mock"
)

// Test types
type TestUser struct {
	ID    string
	Name  string
	Email string
}

type TestProduct struct {
	ID    string
	Name  string
	Price float64
}

func newUserStore() datastore.TableStore[TestUser] {
	return mock.New[TestUser](func(u *TestUser) (string, string) {
		return "USER#" + u.ID, "PROFILE"
	})
}

func newProductStore() datastore.TableStore[TestProduct] {
	return mock.New[TestProduct](func(p *TestProduct) (string, string) {
		return "PRODUCT#" + p.ID, "DETAIL"
	})
}

func TestTypedStorage(t *testing.T) {
	t.Run("BasicOperations", func(t *testing.T) {
		storage := NewTypedStorage[TestUser]()

		// Register table store
		err := storage.Register("users", newUserStore())
		if err != nil {
			t.Fatalf("Failed to register: %v", err)
		}

		// Get table store
		retrieved, err := storage.Get("users")
		if err != nil {
			t.Fatalf("Failed to get: %v", err)
		}
		if retrieved == nil {
			t.Fatal("Retrieved store is nil")
		}

		// List table stores
		keys := storage.List()
		if len(keys) != 1 || keys[0] != "users" {
			t.Fatalf("Expected [users], got %v", keys)
		}

		// Remove table store
		err = storage.Remove("users")
		if err != nil {
			t.Fatalf("Failed to remove: %v", err)
		}

		// Verify removal
		_, err = storage.Get("users")
		if err == nil {
			t.Fatal("Expected error after removal")
		}
	})

	t.Run("DuplicateRegistration", func(t *testing.T) {
		storage := NewTypedStorage[TestUser]()

		err := storage.Register("users", newUserStore())
		if err != nil {
			t.Fatalf("First registration failed: %v", err)
		}

		err = storage.Register("users", newUserStore())
		if err == nil {
			t.Fatal("Expected duplicate registration error")
		}
	})
}

func TestMultiTypeStorage(t *testing.T) {
	mts := NewMultiTypeStorage()

	t.Run("DifferentTypes", func(t *testing.T) {
		// Register user table store
		err := RegisterTableStore(mts, "users", newUserStore())
		if err != nil {
			t.Fatalf("Failed to register user store: %v", err)
		}

		// Register product table store
		err = RegisterTableStore(mts, "products", newProductStore())
		if err != nil {
			t.Fatalf("Failed to register product store: %v", err)
		}

		// Get user table store
		retrievedUser, err := GetTableStore[TestUser](mts, "users")
		if err != nil {
			t.Fatalf("Failed to get user store: %v", err)
		}
		if retrievedUser == nil {
			t.Fatal("User store is nil")
		}

		// Get product table store
		retrievedProduct, err := GetTableStore[TestProduct](mts, "products")
		if err != nil {
			t.Fatalf("Failed to get product store: %v", err)
		}
		if retrievedProduct == nil {
			t.Fatal("Product store is nil")
		}

		// List stores for each type
		userKeys := ListTableStores[TestUser](mts)
		if len(userKeys) != 1 || userKeys[0] != "users" {
			t.Fatalf("Expected user keys [users], got %v", userKeys)
		}

		productKeys := ListTableStores[TestProduct](mts)
		if len(productKeys) != 1 || productKeys[0] != "products" {
			t.Fatalf("Expected product keys [products], got %v", productKeys)
		}
	})

	t.Run("SameKeyDifferentTypes", func(t *testing.T) {
		// Register with same key but different types
		err := RegisterTableStore(mts, "items", newUserStore())
		if err != nil {
			t.Fatalf("Failed to register user store: %v", err)
		}

		err = RegisterTableStore(mts, "items", newProductStore())
		if err != nil {
			t.Fatalf("Failed to register product store: %v", err)
		}

		// Both should succeed because they're different types
		userItems, err := GetTableStore[TestUser](mts, "items")
		if err != nil || userItems == nil {
			t.Fatal("Failed to get user items")
		}

		productItems, err := GetTableStore[TestProduct](mts, "items")
		if err != nil || productItems == nil {
			t.Fatal("Failed to get product items")
		}
	})
}

func TestStorageManager(t *testing.T) {
	sm := NewStorageManager()

	if err := sm.RegisterTableStore("users", newUserStore()); err != nil {
		t.Fatalf("Failed to register: %v", err)
	}
	if err := sm.RegisterTableStore("users", newUserStore()); err == nil {
		t.Fatal("Expected duplicate registration error")
	}

	raw, err := sm.GetTableStore("users")
	if err != nil {
		t.Fatalf("Failed to get: %v", err)
	}
	if _, ok := raw.(datastore.TableStore[TestUser]); !ok {
		t.Fatalf("Expected a TableStore[TestUser], got %T", raw)
	}

	if _, err := sm.GetTableStore("missing"); err == nil {
		t.Fatal("Expected error for an unknown key")
	}
}

func TestThreadSafety(t *testing.T) {
	mts := NewMultiTypeStorage()
	done := make(chan bool)

	// Concurrent writes
	for i := 0; i < 10; i++ {
		go func(id int) {
			key := fmt.Sprintf("store%d", id)
			RegisterTableStore(mts, key, newUserStore())
			done <- true
		}(i)
	}

	// Concurrent reads
	for i := 0; i < 10; i++ {
		go func() {
			ListTableStores[TestUser](mts)
			done <- true
		}()
	}

	// Wait for completion
	for i := 0; i < 20; i++ {
		<-done
	}

	// Verify all stores registered
	keys := ListTableStores[TestUser](mts)
	if len(keys) != 10 {
		t.Fatalf("Expected 10 stores, got %d", len(keys))
	}
}
