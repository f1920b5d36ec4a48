package openfoodfacts

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_FetchByBarcode(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantNil    bool
		wantErr    bool
		checkName  string
		checkBrand string
	}{
		{
			name:   "known product with full nutriments",
			status: http.StatusOK,
			body: `{"status":1,"product":{"code":"737628064502","product_name":"Rice Noodles",
				"brands":"Thai Kitchen","categories":"Noodles",
				"nutriments":{"energy-kcal_100g":385,"proteins_100g":7.5,"fat_100g":1.5,"carbohydrates_100g":83.3}}}`,
			checkName:  "Rice Noodles",
			checkBrand: "Thai Kitchen",
		},
		{
			name:      "generic name fallback",
			status:    http.StatusOK,
			body:      `{"status":1,"product":{"generic_name":"Sparkling water"}}`,
			checkName: "Sparkling water",
		},
		{
			name:      "no usable name falls back to literal",
			status:    http.StatusOK,
			body:      `{"status":1,"product":{"code":"123"}}`,
			checkName: "Unknown Product",
		},
		{
			name:    "status flag zero means not found",
			status:  http.StatusOK,
			body:    `{"status":0}`,
			wantNil: true,
		},
		{
			name:    "http error status means not found",
			status:  http.StatusNotFound,
			body:    `{}`,
			wantNil: true,
		},
		{
			name:    "malformed body is a hard error",
			status:  http.StatusOK,
			body:    `{"status":1,"product":`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/product/4000417025005.json", r.URL.Path)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := New(srv.URL, srv.URL+"/search")
			product, err := client.FetchByBarcode(context.Background(), "4000417025005")

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, product)
				return
			}
			require.NotNil(t, product)
			assert.Equal(t, "4000417025005", product.Barcode)
			assert.Equal(t, tt.checkName, product.Name)
			if tt.checkBrand != "" {
				require.NotNil(t, product.Brand)
				assert.Equal(t, tt.checkBrand, *product.Brand)
			}
		})
	}
}

func TestClient_FetchByBarcode_MapsNutriments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":1,"product":{"product_name":"Oats",
			"nutriments":{"energy-kcal_100g":389,"proteins_100g":16.9,"fat_100g":6.9,"carbohydrates_100g":66.3}}}`))
	}))
	defer srv.Close()

	client := New(srv.URL, srv.URL+"/search")
	product, err := client.FetchByBarcode(context.Background(), "111")
	require.NoError(t, err)
	require.NotNil(t, product)

	require.NotNil(t, product.Calories)
	assert.InDelta(t, 389, *product.Calories, 0.001)
	require.NotNil(t, product.Protein)
	assert.InDelta(t, 16.9, *product.Protein, 0.001)
	require.NotNil(t, product.Fat)
	assert.InDelta(t, 6.9, *product.Fat, 0.001)
	require.NotNil(t, product.Carbs)
	assert.InDelta(t, 66.3, *product.Carbs, 0.001)
}

func TestClient_SearchByQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "apple", q.Get("search_terms"))
		assert.Equal(t, "1", q.Get("search_simple"))
		assert.Equal(t, "process", q.Get("action"))
		assert.Equal(t, "20", q.Get("page_size"))
		_, _ = w.Write([]byte(`{"products":[
			{"code":"1","product_name":"Apple Juice","brands":"Brandy"},
			{"product_name":"Loose Apples"}]}`))
	}))
	defer srv.Close()

	client := New(srv.URL, srv.URL)
	products, err := client.SearchByQuery(context.Background(), "apple")
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, "1", products[0].Barcode)
	assert.Equal(t, "Apple Juice", products[0].Name)
	// Barcode defaults to empty string when absent upstream.
	assert.Equal(t, "", products[1].Barcode)
	assert.Equal(t, "Loose Apples", products[1].Name)
}

func TestClient_SearchByQuery_NonOKIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := New(srv.URL, srv.URL)
	products, err := client.SearchByQuery(context.Background(), "apple")
	require.NoError(t, err)
	assert.Empty(t, products)
}
