package groups_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/chordhub/internal/app/features/groups"
	"github.com/dalemusser/chordhub/internal/domain/models"
	"github.com/dalemusser/chordhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*groups.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	handler := groups.NewHandler(db, nil, zap.NewNop())
	fixtures := testutil.NewFixtures(t, db)
	return handler, fixtures
}

func TestHandleCreate_Success(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateUser(ctx, "Ada", "ada@test.com")

	req := testutil.NewJSONRequest("POST", "/groups", `{"name":"Brass Section","join_policy":"approval"}`)
	req = testutil.WithUser(req, creator.ID, "Ada")

	rec := httptest.NewRecorder()
	handler.HandleCreate(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}

	var g models.Group
	if err := json.Unmarshal(rec.Body.Bytes(), &g); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if g.Slug != "brass-section" {
		t.Errorf("slug: got %q, want %q", g.Slug, "brass-section")
	}

	// The creator becomes the owner.
	count, err := fixtures.DB().Collection("group_memberships").CountDocuments(ctx, bson.M{
		"group_id": g.ID,
		"user_id":  creator.ID,
		"role":     models.RoleOwner,
	})
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 owner membership, got %d", count)
	}
}

func TestHandleCreate_RequiresName(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateUser(ctx, "Ada", "ada@test.com")

	req := testutil.NewJSONRequest("POST", "/groups", `{"description":"no name"}`)
	req = testutil.WithUser(req, creator.ID, "Ada")

	rec := httptest.NewRecorder()
	handler.HandleCreate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestHandleCreate_RejectsUnknownFields(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateUser(ctx, "Ada", "ada@test.com")

	req := testutil.NewJSONRequest("POST", "/groups", `{"name":"Band","bogus":true}`)
	req = testutil.WithUser(req, creator.ID, "Ada")

	rec := httptest.NewRecorder()
	handler.HandleCreate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestRoutes_RequireSignIn(t *testing.T) {
	handler, _ := newTestHandler(t)
	router := groups.Routes(handler)

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["error"] != "unauthorized" {
		t.Errorf("error body: got %q, want %q", body["error"], "unauthorized")
	}
}

func TestHandleGet_BadAndMissingID(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	viewer := fixtures.CreateUser(ctx, "Viewer", "viewer@test.com")

	req := testutil.NewJSONRequest("GET", "/groups/nope", "")
	req = testutil.WithUser(req, viewer.ID, "Viewer")
	req = testutil.WithChiURLParam(req, "id", "nope")
	rec := httptest.NewRecorder()
	handler.HandleGet(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed id: expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}

	missing := primitive.NewObjectID()
	req = testutil.NewJSONRequest("GET", "/groups/"+missing.Hex(), "")
	req = testutil.WithUser(req, viewer.ID, "Viewer")
	req = testutil.WithChiURLParam(req, "id", missing.Hex())
	rec = httptest.NewRecorder()
	handler.HandleGet(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing group: expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestHandleJoin_OpenGroup(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner@test.com")
	joiner := fixtures.CreateUser(ctx, "Joiner", "joiner@test.com")
	g := fixtures.CreateGroup(ctx, "Band", models.JoinPolicyOpen)
	fixtures.CreateOwner(ctx, g.ID, owner.ID)

	req := testutil.NewJSONRequest("POST", "/groups/"+g.ID.Hex()+"/join", "")
	req = testutil.WithUser(req, joiner.ID, "Joiner")
	req = testutil.WithChiURLParam(req, "id", g.ID.Hex())
	rec := httptest.NewRecorder()
	handler.HandleJoin(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Status != "joined" {
		t.Errorf("status: got %q, want %q", body.Status, "joined")
	}

	// Joining again conflicts.
	req = testutil.NewJSONRequest("POST", "/groups/"+g.ID.Hex()+"/join", "")
	req = testutil.WithUser(req, joiner.ID, "Joiner")
	req = testutil.WithChiURLParam(req, "id", g.ID.Hex())
	rec = httptest.NewRecorder()
	handler.HandleJoin(rec, req)
	if rec.Code != http.StatusConflict {
		t.Errorf("re-join: expected status %d, got %d", http.StatusConflict, rec.Code)
	}
}

func TestHandleJoin_ApprovalGroupRecordsPending(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner@test.com")
	joiner := fixtures.CreateUser(ctx, "Joiner", "joiner@test.com")
	g := fixtures.CreateGroup(ctx, "Choir", models.JoinPolicyApproval)
	fixtures.CreateOwner(ctx, g.ID, owner.ID)

	req := testutil.NewJSONRequest("POST", "/groups/"+g.ID.Hex()+"/join", `{"message":"let me in"}`)
	req = testutil.WithUser(req, joiner.ID, "Joiner")
	req = testutil.WithChiURLParam(req, "id", g.ID.Hex())
	rec := httptest.NewRecorder()
	handler.HandleJoin(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected status %d, got %d: %s", http.StatusAccepted, rec.Code, rec.Body.String())
	}
	var body struct {
		Status  string             `json:"status"`
		Request models.JoinRequest `json:"request"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Status != "pending" {
		t.Errorf("status: got %q, want %q", body.Status, "pending")
	}
	if body.Request.Status != models.RequestPending {
		t.Errorf("request status: got %q, want pending", body.Request.Status)
	}
}

func TestHandleApprove_LifecycleStatuses(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner@test.com")
	joiner := fixtures.CreateUser(ctx, "Joiner", "joiner@test.com")
	g := fixtures.CreateGroup(ctx, "Choir", models.JoinPolicyApproval)
	fixtures.CreateOwner(ctx, g.ID, owner.ID)
	jr := fixtures.CreateJoinRequest(ctx, g.ID, joiner.ID)

	approve := func(actorID primitive.ObjectID) *httptest.ResponseRecorder {
		req := testutil.NewJSONRequest("POST", "/groups/"+g.ID.Hex()+"/requests/"+jr.ID.Hex()+"/approve", "")
		req = testutil.WithUser(req, actorID, "Actor")
		req = testutil.WithChiURLParam(req, "id", g.ID.Hex())
		req = testutil.WithChiURLParam(req, "requestID", jr.ID.Hex())
		rec := httptest.NewRecorder()
		handler.HandleApprove(rec, req)
		return rec
	}

	// An outsider may not approve.
	if rec := approve(joiner.ID); rec.Code != http.StatusForbidden {
		t.Errorf("outsider approving: expected status %d, got %d", http.StatusForbidden, rec.Code)
	}

	if rec := approve(owner.ID); rec.Code != http.StatusOK {
		t.Fatalf("owner approving: expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	// A resolved request cannot be approved again.
	if rec := approve(owner.ID); rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("re-approving: expected status %d, got %d", http.StatusUnprocessableEntity, rec.Code)
	}
}

func TestHandlePromote_StatusMapping(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner@test.com")
	member := fixtures.CreateUser(ctx, "Member", "member@test.com")
	target := fixtures.CreateUser(ctx, "Target", "target@test.com")
	g := fixtures.CreateGroup(ctx, "Band", models.JoinPolicyOpen)
	fixtures.CreateOwner(ctx, g.ID, owner.ID)
	fixtures.CreateMembership(ctx, g.ID, member.ID, models.RoleMember, time.Now().UTC(), nil)
	fixtures.CreateMembership(ctx, g.ID, target.ID, models.RoleMember, time.Now().UTC(), nil)

	promote := func(actorID primitive.ObjectID, groupHex string) *httptest.ResponseRecorder {
		req := testutil.NewJSONRequest("POST", "/groups/"+groupHex+"/members/"+target.ID.Hex()+"/promote", "")
		req = testutil.WithUser(req, actorID, "Actor")
		req = testutil.WithChiURLParam(req, "id", groupHex)
		req = testutil.WithChiURLParam(req, "userID", target.ID.Hex())
		rec := httptest.NewRecorder()
		handler.HandlePromote(rec, req)
		return rec
	}

	// Members have no management rights.
	if rec := promote(member.ID, g.ID.Hex()); rec.Code != http.StatusForbidden {
		t.Errorf("member promoting: expected status %d, got %d", http.StatusForbidden, rec.Code)
	}

	// An unknown group is not found.
	if rec := promote(owner.ID, primitive.NewObjectID().Hex()); rec.Code != http.StatusNotFound {
		t.Errorf("unknown group: expected status %d, got %d", http.StatusNotFound, rec.Code)
	}

	if rec := promote(owner.ID, g.ID.Hex()); rec.Code != http.StatusOK {
		t.Fatalf("owner promoting: expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	// Promoting an admin again is an invalid state.
	if rec := promote(owner.ID, g.ID.Hex()); rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("re-promoting: expected status %d, got %d", http.StatusUnprocessableEntity, rec.Code)
	}
}

func TestHandlePendingRequests_OwnerAndAdminOnly(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner@test.com")
	member := fixtures.CreateUser(ctx, "Member", "member@test.com")
	joiner := fixtures.CreateUser(ctx, "Joiner", "joiner@test.com")
	g := fixtures.CreateGroup(ctx, "Choir", models.JoinPolicyApproval)
	fixtures.CreateOwner(ctx, g.ID, owner.ID)
	fixtures.CreateMembership(ctx, g.ID, member.ID, models.RoleMember, time.Now().UTC(), nil)
	fixtures.CreateJoinRequest(ctx, g.ID, joiner.ID)

	list := func(actorID primitive.ObjectID) *httptest.ResponseRecorder {
		req := testutil.NewJSONRequest("GET", "/groups/"+g.ID.Hex()+"/requests", "")
		req = testutil.WithUser(req, actorID, "Actor")
		req = testutil.WithChiURLParam(req, "id", g.ID.Hex())
		rec := httptest.NewRecorder()
		handler.HandlePendingRequests(rec, req)
		return rec
	}

	if rec := list(member.ID); rec.Code != http.StatusForbidden {
		t.Errorf("member listing requests: expected status %d, got %d", http.StatusForbidden, rec.Code)
	}

	rec := list(owner.ID)
	if rec.Code != http.StatusOK {
		t.Fatalf("owner listing requests: expected status %d, got %d", http.StatusOK, rec.Code)
	}
	var reqs []models.JoinRequest
	if err := json.Unmarshal(rec.Body.Bytes(), &reqs); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(reqs) != 1 {
		t.Errorf("pending requests: got %d, want 1", len(reqs))
	}
}

func TestHandleDelete_SystemGroupBlocked(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner@test.com")
	sys := fixtures.CreateSystemGroup(ctx)
	fixtures.CreateOwner(ctx, sys.ID, owner.ID)

	req := testutil.NewJSONRequest("DELETE", "/groups/"+sys.ID.Hex(), "")
	req = testutil.WithUser(req, owner.ID, "Owner")
	req = testutil.WithChiURLParam(req, "id", sys.ID.Hex())
	rec := httptest.NewRecorder()
	handler.HandleDelete(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("deleting the system group: expected status %d, got %d", http.StatusUnprocessableEntity, rec.Code)
	}
}
