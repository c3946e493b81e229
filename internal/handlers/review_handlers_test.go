package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swapcloset/swapcloset-golang/internal/catalog"
	"github.com/swapcloset/swapcloset-golang/internal/itemstore"
	"github.com/swapcloset/swapcloset-golang/internal/ledger"
	"github.com/swapcloset/swapcloset-golang/internal/models"
	"github.com/swapcloset/swapcloset-golang/internal/submissions"
	"github.com/swapcloset/swapcloset-golang/internal/workflow"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type reviewFixture struct {
	handlers *Handlers
	store    *itemstore.Memory
	coins    *ledger.Memory
}

func newReviewFixture() *reviewFixture {
	store := itemstore.NewMemory(nil)
	coins := ledger.NewMemory()
	return &reviewFixture{
		handlers: &Handlers{
			Catalog:     catalog.New(store),
			Submissions: submissions.New(store),
			Workflow:    workflow.New(store, coins, nil),
			Ledger:      coins,
		},
		store: store,
		coins: coins,
	}
}

func (f *reviewFixture) addSubmission(t *testing.T, ownerID int64, title string) int64 {
	t.Helper()
	id, err := f.store.Insert(context.Background(), &models.Item{
		Title:       title,
		Category:    "tops",
		OwnerUserID: ownerID,
	})
	require.NoError(t, err)
	return id
}

// request builds a test context carrying an authenticated staff user,
// a JSON body and an optional :id route param.
func request(method, body string, itemID int64, reviewerID int64) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	if itemID != 0 {
		c.Params = gin.Params{{Key: "id", Value: strconv.FormatInt(itemID, 10)}}
	}
	c.Set("userID", reviewerID)
	return c, w
}

func TestApproveSubmissionCreditsOwnerOnce(t *testing.T) {
	f := newReviewFixture()
	itemID := f.addSubmission(t, 7, "Wool Coat")

	c, w := request(http.MethodPatch, `{"swapcoinsAwarded": 40, "convertible": true, "estimatedValue": 25.5}`, itemID, 9)
	f.handlers.ApproveSubmission(c)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	balance, err := f.coins.Balance(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 40, balance)

	// Second approval loses the race and must not credit again.
	c, w = request(http.MethodPatch, `{"swapcoinsAwarded": 40}`, itemID, 9)
	f.handlers.ApproveSubmission(c)
	assert.Equal(t, http.StatusConflict, w.Code)

	balance, err = f.coins.Balance(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 40, balance)
}

func TestApproveSubmissionRejectsNegativeAward(t *testing.T) {
	f := newReviewFixture()
	itemID := f.addSubmission(t, 7, "Wool Coat")

	c, w := request(http.MethodPatch, `{"swapcoinsAwarded": -5}`, itemID, 9)
	f.handlers.ApproveSubmission(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestApproveSubmissionUnknownItem(t *testing.T) {
	f := newReviewFixture()

	c, w := request(http.MethodPatch, `{"swapcoinsAwarded": 10}`, 404, 9)
	f.handlers.ApproveSubmission(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestApproveSubmissionNonIntegerID(t *testing.T) {
	f := newReviewFixture()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: "abc"}}
	c.Set("userID", int64(9))

	f.handlers.ApproveSubmission(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRejectSubmissionRequiresNotes(t *testing.T) {
	f := newReviewFixture()
	itemID := f.addSubmission(t, 7, "Torn Jeans")

	c, w := request(http.MethodPatch, `{}`, itemID, 9)
	f.handlers.RejectSubmission(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c, w = request(http.MethodPatch, `{"notes": "stains on the front"}`, itemID, 9)
	f.handlers.RejectSubmission(c)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	balance, err := f.coins.Balance(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 0, balance)
}

func TestBatchApproveReportsPartialFailures(t *testing.T) {
	f := newReviewFixture()
	okID := f.addSubmission(t, 7, "Denim Jacket")
	missing := int64(404)

	c, w := request(http.MethodPost,
		`{"itemIds": [`+strconv.FormatInt(okID, 10)+`, `+strconv.FormatInt(missing, 10)+`], "swapcoinsPerItem": 15}`,
		0, 9)
	f.handlers.BatchApproveSubmissions(c)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Result workflow.BatchResult `json:"result"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []int64{okID}, resp.Result.Approved)
	require.Len(t, resp.Result.Failed, 1)
	assert.Equal(t, missing, resp.Result.Failed[0].ItemID)

	balance, err := f.coins.Balance(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 15, balance)
}

func TestBatchApproveRequiresItemIDs(t *testing.T) {
	f := newReviewFixture()

	c, w := request(http.MethodPost, `{"itemIds": [], "swapcoinsPerItem": 10}`, 0, 9)
	f.handlers.BatchApproveSubmissions(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConvertSubmissionLifecycle(t *testing.T) {
	f := newReviewFixture()
	itemID := f.addSubmission(t, 7, "Denim Jacket")

	// Converting before approval is a conflict.
	c, w := request(http.MethodPost, ``, itemID, 9)
	f.handlers.ConvertSubmission(c)
	assert.Equal(t, http.StatusConflict, w.Code)

	c, w = request(http.MethodPatch, `{"swapcoinsAwarded": 20, "convertible": true, "estimatedValue": 30}`, itemID, 9)
	f.handlers.ApproveSubmission(c)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	c, w = request(http.MethodPost, ``, itemID, 9)
	f.handlers.ConvertSubmission(c)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	item, err := f.store.Get(context.Background(), itemID)
	require.NoError(t, err)
	assert.True(t, item.IsShopItem)
	assert.Equal(t, 1, item.StockQuantity)
	require.NotNil(t, item.Price)
	assert.Equal(t, 30.0, *item.Price)

	// The row is now inventory, so the review endpoints refuse it.
	c, w = request(http.MethodPost, ``, itemID, 9)
	f.handlers.ConvertSubmission(c)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestGetSubmissionsRejectsUnknownStatus(t *testing.T) {
	f := newReviewFixture()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/?status=bogus", nil)
	c.Set("userID", int64(9))

	f.handlers.GetSubmissions(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
