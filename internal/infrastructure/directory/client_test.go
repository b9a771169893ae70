package directory

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	experrors "shopify-product-export/pkg/errors"

	"github.com/rs/zerolog"
)

const storesBody = `{
	"stores": [
		{"id": "store-1", "shop": "one.myshopify.com", "name": "Store One", "accessToken": "tok1"},
		{"id": "store-2", "shop": "two.myshopify.com", "name": "Store Two", "accessToken": ""},
		{"id": "store-3", "shop": "", "name": "Store Three", "accessToken": "tok3"}
	]
}`

func directoryServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/stores" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestListStores(t *testing.T) {
	server := directoryServer(t, http.StatusOK, storesBody)
	client := NewClient(server.URL, nil, zerolog.Nop())

	stores, err := client.ListStores(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stores) != 3 {
		t.Fatalf("expected 3 stores, got %d", len(stores))
	}
	if stores[0].ID != "store-1" || stores[0].Shop != "one.myshopify.com" || stores[0].AccessToken != "tok1" {
		t.Errorf("first store not decoded: %+v", stores[0])
	}
}

func TestResolveStore(t *testing.T) {
	server := directoryServer(t, http.StatusOK, storesBody)
	client := NewClient(server.URL, nil, zerolog.Nop())

	store, err := client.ResolveStore(context.Background(), "store-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.Shop != "one.myshopify.com" {
		t.Errorf("wrong store resolved: %+v", store)
	}
}

func TestResolveStoreNotFound(t *testing.T) {
	server := directoryServer(t, http.StatusOK, storesBody)
	client := NewClient(server.URL, nil, zerolog.Nop())

	_, err := client.ResolveStore(context.Background(), "nope")
	var notFound *experrors.ErrStoreNotFound
	if !errors.As(err, &notFound) {
		t.Fatalf("expected store-not-found, got %v", err)
	}
	if notFound.StoreID != "nope" {
		t.Errorf("error should name the store id: %v", notFound)
	}
}

func TestResolveStoreMissingCredentials(t *testing.T) {
	server := directoryServer(t, http.StatusOK, storesBody)
	client := NewClient(server.URL, nil, zerolog.Nop())

	for _, storeID := range []string{"store-2", "store-3"} {
		_, err := client.ResolveStore(context.Background(), storeID)
		var missing *experrors.ErrCredentialMissing
		if !errors.As(err, &missing) {
			t.Errorf("%s: expected credential-missing, got %v", storeID, err)
		}
	}
}

func TestListStoresDirectoryDown(t *testing.T) {
	server := directoryServer(t, http.StatusOK, storesBody)
	server.Close()
	client := NewClient(server.URL, nil, zerolog.Nop())

	_, err := client.ListStores(context.Background())
	var unavailable *experrors.ErrDirectoryUnavailable
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected directory-unavailable, got %v", err)
	}
	if unavailable.Cause == nil {
		t.Errorf("transport failure should carry a cause")
	}
}

func TestListStoresNonOKStatus(t *testing.T) {
	server := directoryServer(t, http.StatusBadGateway, "oops")
	client := NewClient(server.URL, nil, zerolog.Nop())

	_, err := client.ListStores(context.Background())
	var unavailable *experrors.ErrDirectoryUnavailable
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected directory-unavailable, got %v", err)
	}
	if unavailable.Status != http.StatusBadGateway {
		t.Errorf("error should carry the status, got %d", unavailable.Status)
	}
}

func TestListStoresMalformedBody(t *testing.T) {
	server := directoryServer(t, http.StatusOK, "{not json")
	client := NewClient(server.URL, nil, zerolog.Nop())

	_, err := client.ListStores(context.Background())
	var unavailable *experrors.ErrDirectoryUnavailable
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected directory-unavailable, got %v", err)
	}
}
