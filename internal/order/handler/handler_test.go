package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/fekuna/omnipos-sales-service/internal/database"
	"github.com/fekuna/omnipos-sales-service/internal/database/dbtest"
	"github.com/fekuna/omnipos-sales-service/internal/inventory"
	invRepoPkg "github.com/fekuna/omnipos-sales-service/internal/inventory/repository"
	"github.com/fekuna/omnipos-sales-service/internal/logger"
	"github.com/fekuna/omnipos-sales-service/internal/middleware"
	"github.com/fekuna/omnipos-sales-service/internal/order"
	"github.com/fekuna/omnipos-sales-service/internal/order/dto"
	"github.com/fekuna/omnipos-sales-service/internal/order/repository"
	"github.com/fekuna/omnipos-sales-service/internal/order/usecase"
	"github.com/fekuna/omnipos-sales-service/internal/rpc/rpctest"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func newUseCase(t *testing.T) (order.UseCase, *sqlx.DB, int64) {
	t.Helper()
	db := dbtest.New(t)
	dialect, err := database.DialectFor(database.DriverSQLite)
	require.NoError(t, err)

	p := dbtest.InsertProduct(t, db, dbtest.Product{Name: "Coffee", SKU: "C1", UnitPrice: 10, CurrentStock: 5})
	uc := usecase.NewOrderUseCase(
		repository.NewSQLRepository(db, dialect),
		invRepoPkg.NewSQLRepository(db, inventory.StockPolicyAllow),
		database.NewTxManager(db),
		usecase.Options{Clock: func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }},
		logger.NewNop(),
	)
	return uc, db, p
}

func newRouter(uc order.UseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.Cashier())
	NewOrderHTTPHandler(uc, logger.NewNop()).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func do(r http.Handler, method, path string, body interface{}, header map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHTTPOrderLifecycle(t *testing.T) {
	uc, db, p := newUseCase(t)
	r := newRouter(uc)

	w := do(r, http.MethodPost, "/api/v1/orders", map[string]interface{}{
		"order_id": "A1",
		"total":    20,
		"items":    []map[string]interface{}{{"product_id": p, "quantity": 2, "price": 10.0}},
	}, map[string]string{"X-Cashier": "alice"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created dto.OrderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "alice", created.Cashier)
	assert.Equal(t, "2025-06-01 12:00:00", created.CreatedAt)
	require.Len(t, created.Items, 1)
	assert.Equal(t, 1, dbtest.Count(t, db, "products", "current_stock = 3"))

	w = do(r, http.MethodGet, "/api/v1/orders/"+strconv.FormatInt(created.ID, 10), nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/api/v1/orders/recent?limit=5", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Orders []dto.OrderResponse `json:"orders"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list.Orders, 1)

	w = do(r, http.MethodGet, "/api/v1/orders?start_date=2025-06-01&end_date=2025-06-01&status=completed", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list.Orders, 1)

	w = do(r, http.MethodGet, "/api/v1/orders/statistics?start_date=2025-06-01", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats dto.OrderStatistics
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, int64(1), stats.OrderCount)
	assert.Equal(t, 20.0, stats.TotalRevenue)
}

func TestHTTPOrderErrors(t *testing.T) {
	uc, _, p := newUseCase(t)
	r := newRouter(uc)

	w := do(r, http.MethodPost, "/api/v1/orders", map[string]interface{}{"items": []interface{}{}}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/api/v1/orders", map[string]interface{}{
		"items": []map[string]interface{}{{"product_id": p + 100, "quantity": 1, "price": 1}},
	}, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodPost, "/api/v1/orders", "not an object", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodGet, "/api/v1/orders/abc", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodGet, "/api/v1/orders/77", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodGet, "/api/v1/orders?end_date=tomorrow", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGRPCOrderService(t *testing.T) {
	uc, _, p := newUseCase(t)
	h := NewOrderGRPCHandler(uc, logger.NewNop())
	conn := rpctest.Dial(t, func(s *grpc.Server) { h.Register(s) })
	ctx := metadata.AppendToOutgoingContext(context.Background(), "x-cashier", "carol")
	method := func(name string) string { return "/" + OrderServiceName + "/" + name }

	out, err := rpctest.Call(ctx, conn, method("CreateOrder"), map[string]interface{}{
		"order_id": "G1",
		"items":    []interface{}{map[string]interface{}{"product_id": float64(p), "quantity": 1, "price": 9.5}},
	})
	require.NoError(t, err)
	assert.Equal(t, "carol", out.Fields["cashier"].GetStringValue())
	id := out.Fields["id"].GetNumberValue()

	out, err = rpctest.Call(ctx, conn, method("GetOrder"), map[string]interface{}{"id": id})
	require.NoError(t, err)
	assert.Equal(t, "G1", out.Fields["order_id"].GetStringValue())
	items := out.Fields["items"].GetListValue().GetValues()
	require.Len(t, items, 1)
	assert.Equal(t, 9.5, items[0].GetStructValue().Fields["price"].GetNumberValue())

	out, err = rpctest.Call(ctx, conn, method("ListRecentOrders"), map[string]interface{}{})
	require.NoError(t, err)
	assert.Len(t, out.Fields["orders"].GetListValue().GetValues(), 1)

	out, err = rpctest.Call(ctx, conn, method("ListOrderHistory"), map[string]interface{}{"status": "refunded"})
	require.NoError(t, err)
	assert.Empty(t, out.Fields["orders"].GetListValue().GetValues())

	out, err = rpctest.Call(ctx, conn, method("GetOrderStatistics"), map[string]interface{}{})
	require.NoError(t, err)
	assert.Equal(t, 1.0, out.Fields["unique_cashiers"].GetNumberValue())

	_, err = rpctest.Call(ctx, conn, method("GetOrder"), map[string]interface{}{"id": 404})
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = rpctest.Call(ctx, conn, method("CreateOrder"), map[string]interface{}{"items": []interface{}{}})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}
