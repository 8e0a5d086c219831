package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/wimf-app/wimf/internal/handler"
	"github.com/wimf-app/wimf/internal/mail"
	"github.com/wimf-app/wimf/internal/model"
	"github.com/wimf-app/wimf/internal/service"
	"github.com/wimf-app/wimf/internal/store"
)

type stubGenerator struct {
	reply string
	err   error
}

func (g stubGenerator) Generate(ctx context.Context, prompt, imageBase64 string) (string, error) {
	return g.reply, g.err
}

func newTestServer(t *testing.T, gen stubGenerator) (*Server, *store.Store) {
	t.Helper()

	st, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	authSvc := service.NewAuthService("test-secret")
	h := handler.New(st, authSvc, &mail.LogSender{Logger: logger}, gen, logger)

	cfg := DefaultConfig()
	cfg.RateRequests = 0 // no limiter in tests

	return New(cfg, h, st, authSvc, logger), st
}

func do(t *testing.T, srv *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		buf = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", rr.Body.String(), err)
	}
}

func message(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var m model.MessageResponse
	decode(t, rr, &m)
	return m.Message
}

// register creates an account through the API and returns its token and id.
func register(t *testing.T, srv *Server, username, email string) (string, int64) {
	t.Helper()

	rr := do(t, srv, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": username,
		"email":    email,
		"password": "motdepasse",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("register %s: status = %d, body %s", username, rr.Code, rr.Body.String())
	}
	var resp model.RegisterResponse
	decode(t, rr, &resp)
	return resp.Token, resp.User.ID
}

// registerAdmin registers an account and promotes it directly in the store.
func registerAdmin(t *testing.T, srv *Server, st *store.Store, username, email string) (string, int64) {
	t.Helper()

	token, id := register(t, srv, username, email)
	if _, err := st.PromoteUser(context.Background(), email, model.RoleAdministrator); err != nil {
		t.Fatalf("promote %s: %v", email, err)
	}
	return token, id
}

func seedRecipe(t *testing.T, st *store.Store, name string) int64 {
	t.Helper()
	row, err := st.CreateRecipe(context.Background(), store.RecipeInput{
		Name:         name,
		Instructions: "Mélanger et cuire.",
	})
	if err != nil {
		t.Fatalf("seed recipe %s: %v", name, err)
	}
	return row.ID
}

func TestHealthEndpoints(t *testing.T) {
	srv, _ := newTestServer(t, stubGenerator{})

	if rr := do(t, srv, http.MethodGet, "/healthz", "", nil); rr.Code != http.StatusOK {
		t.Fatalf("healthz = %d", rr.Code)
	}
	if rr := do(t, srv, http.MethodGet, "/readyz", "", nil); rr.Code != http.StatusOK {
		t.Fatalf("readyz = %d, body %s", rr.Code, rr.Body.String())
	}
}

func TestRegisterAndLogin(t *testing.T) {
	srv, _ := newTestServer(t, stubGenerator{})

	rr := do(t, srv, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "motdepasse",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("register = %d, body %s", rr.Code, rr.Body.String())
	}
	var resp model.RegisterResponse
	decode(t, rr, &resp)
	if resp.Message != "Utilisateur connecté avec succès" {
		t.Errorf("message = %q", resp.Message)
	}
	if resp.Token == "" || resp.User.Username != "alice" {
		t.Errorf("unexpected payload: %+v", resp)
	}

	// Short password.
	rr = do(t, srv, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": "bobby",
		"email":    "bob@example.com",
		"password": "mdp",
	})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("short password = %d", rr.Code)
	}

	// Usernames only allow letters, digits and underscores.
	for _, username := range []string{"%%%%%", "bob by", "héloïse"} {
		rr = do(t, srv, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
			"username": username,
			"email":    "bob@example.com",
			"password": "motdepasse",
		})
		if rr.Code != http.StatusBadRequest {
			t.Errorf("register %q = %d, want 400", username, rr.Code)
		}
	}

	// Duplicate email.
	rr = do(t, srv, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": "alice2",
		"email":    "ALICE@example.com",
		"password": "motdepasse",
	})
	if rr.Code != http.StatusConflict {
		t.Errorf("duplicate email = %d", rr.Code)
	}
	if got := message(t, rr); got != "Tu ne peux pas utiliser ce nom d'utilisateur ou cet email." {
		t.Errorf("conflict message = %q", got)
	}

	// Login happy path answers the bare token string.
	rr = do(t, srv, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "motdepasse",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("login = %d, body %s", rr.Code, rr.Body.String())
	}
	var token string
	decode(t, rr, &token)
	if token == "" {
		t.Error("login returned an empty token")
	}

	rr = do(t, srv, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "nobody@example.com",
		"password": "motdepasse",
	})
	if rr.Code != http.StatusUnauthorized || message(t, rr) != "Cet email n'est lié à aucun compte" {
		t.Errorf("unknown email: %d %s", rr.Code, rr.Body.String())
	}

	rr = do(t, srv, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "mauvais-mdp",
	})
	if rr.Code != http.StatusUnauthorized || message(t, rr) != "Le mot de passe est incorrect" {
		t.Errorf("wrong password: %d %s", rr.Code, rr.Body.String())
	}
}

func TestPasswordResetFlow(t *testing.T) {
	srv, _ := newTestServer(t, stubGenerator{})
	_, id := register(t, srv, "alice", "alice@example.com")

	rr := do(t, srv, http.MethodPost, "/api/v1/auth/forgot-pass", "", map[string]string{
		"email": "nobody@example.com",
	})
	if rr.Code != http.StatusNotFound || message(t, rr) != "Cet email n'est lié à aucun compte" {
		t.Errorf("unknown email: %d %s", rr.Code, rr.Body.String())
	}

	rr = do(t, srv, http.MethodPost, "/api/v1/auth/forgot-pass", "", map[string]string{
		"email": "alice@example.com",
	})
	if rr.Code != http.StatusOK || message(t, rr) != "Email envoyé" {
		t.Fatalf("forgot-pass: %d %s", rr.Code, rr.Body.String())
	}

	// The token travels by mail; mint an equivalent one directly.
	authSvc := service.NewAuthService("test-secret")
	resetToken, err := authSvc.IssueResetToken(id)
	if err != nil {
		t.Fatalf("issue reset token: %v", err)
	}

	// Wrong email for the token's account.
	rr = do(t, srv, http.MethodPut, "/api/v1/auth/reset-pass", resetToken, map[string]string{
		"email":    "bob@example.com",
		"password": "nouveau-mdp",
	})
	if rr.Code != http.StatusUnauthorized || message(t, rr) != "Tu n'es pas autorisé à réaliser cette action" {
		t.Errorf("email mismatch: %d %s", rr.Code, rr.Body.String())
	}

	// A session token must not open the reset endpoint.
	sessionToken, _ := authSvc.IssueSession(id, "alice")
	rr = do(t, srv, http.MethodPut, "/api/v1/auth/reset-pass", sessionToken, map[string]string{
		"email":    "alice@example.com",
		"password": "nouveau-mdp",
	})
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("session token on reset = %d", rr.Code)
	}

	rr = do(t, srv, http.MethodPut, "/api/v1/auth/reset-pass", resetToken, map[string]string{
		"email":    "alice@example.com",
		"password": "nouveau-mdp",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("reset-pass: %d %s", rr.Code, rr.Body.String())
	}

	// Old password out, new password in.
	rr = do(t, srv, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "motdepasse",
	})
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("old password still works: %d", rr.Code)
	}
	rr = do(t, srv, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "nouveau-mdp",
	})
	if rr.Code != http.StatusOK {
		t.Errorf("new password rejected: %d %s", rr.Code, rr.Body.String())
	}
}

func TestUserAccessRules(t *testing.T) {
	srv, st := newTestServer(t, stubGenerator{})
	adminToken, _ := registerAdmin(t, srv, st, "chef_admin", "root@example.com")
	aliceToken, aliceID := register(t, srv, "alice", "alice@example.com")
	_, bobID := register(t, srv, "bobby", "bob@example.com")

	// Member cannot list users.
	rr := do(t, srv, http.MethodGet, "/api/v1/users", aliceToken, nil)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("member list users = %d", rr.Code)
	}
	// Admin can.
	rr = do(t, srv, http.MethodGet, "/api/v1/users", adminToken, nil)
	if rr.Code != http.StatusOK {
		t.Errorf("admin list users = %d, body %s", rr.Code, rr.Body.String())
	}

	// Member reads their own profile, not a peer's.
	rr = do(t, srv, http.MethodGet, idPath("/api/v1/users", aliceID), aliceToken, nil)
	if rr.Code != http.StatusOK {
		t.Errorf("self profile = %d", rr.Code)
	}
	rr = do(t, srv, http.MethodGet, idPath("/api/v1/users", bobID), aliceToken, nil)
	if rr.Code != http.StatusUnauthorized || message(t, rr) != "Tu n'as pas le droit de consulter ce profil" {
		t.Errorf("peer profile: %d %s", rr.Code, rr.Body.String())
	}

	// A member cannot grant themselves a role.
	rr = do(t, srv, http.MethodPut, idPath("/api/v1/users", aliceID), aliceToken, map[string]string{
		"rights": "Administrator",
	})
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("self promotion = %d, body %s", rr.Code, rr.Body.String())
	}

	// Admin promotes a member.
	rr = do(t, srv, http.MethodPut, idPath("/api/v1/users", bobID), adminToken, map[string]string{
		"rights": "Moderator",
	})
	if rr.Code != http.StatusOK {
		t.Errorf("admin promote = %d, body %s", rr.Code, rr.Body.String())
	}

	// Delete own account.
	rr = do(t, srv, http.MethodDelete, idPath("/api/v1/users", aliceID), aliceToken, nil)
	if rr.Code != http.StatusNoContent {
		t.Errorf("self delete = %d, body %s", rr.Code, rr.Body.String())
	}
}

func TestRecipeEndpoints(t *testing.T) {
	srv, st := newTestServer(t, stubGenerator{})
	adminToken, _ := registerAdmin(t, srv, st, "chef_admin", "root@example.com")
	memberToken, _ := register(t, srv, "alice", "alice@example.com")

	recipe := map[string]any{
		"name":             "Tarte aux pommes",
		"description":      "Un classique.",
		"preparation_time": 20,
		"cooking_time":     40,
		"instructions":     "Étaler la pâte, garnir, enfourner.",
	}

	// Members cannot write recipes.
	rr := do(t, srv, http.MethodPost, "/api/v1/recipes", memberToken, recipe)
	if rr.Code != http.StatusForbidden {
		t.Errorf("member create recipe = %d", rr.Code)
	}

	rr = do(t, srv, http.MethodPost, "/api/v1/recipes", adminToken, recipe)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create recipe = %d, body %s", rr.Code, rr.Body.String())
	}
	var created struct {
		Message string       `json:"message"`
		Added   model.Recipe `json:"addedRecipe"`
	}
	decode(t, rr, &created)
	if created.Message != "Recette ajoutée avec succès" {
		t.Errorf("create message = %q", created.Message)
	}

	// Same name again conflicts.
	rr = do(t, srv, http.MethodPost, "/api/v1/recipes", adminToken, recipe)
	if rr.Code != http.StatusConflict || message(t, rr) != "Ce nom de recette est déjà utilisé" {
		t.Errorf("duplicate recipe: %d %s", rr.Code, rr.Body.String())
	}

	seedRecipe(t, st, "Gratin dauphinois")

	// Public list and OR search.
	rr = do(t, srv, http.MethodGet, "/api/v1/recipes", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("list recipes = %d", rr.Code)
	}
	var recipes []model.Recipe
	decode(t, rr, &recipes)
	if len(recipes) != 2 {
		t.Errorf("len(recipes) = %d", len(recipes))
	}

	rr = do(t, srv, http.MethodGet, "/api/v1/recipes/search/tarte+gratin", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("search = %d, body %s", rr.Code, rr.Body.String())
	}
	var found []model.Recipe
	decode(t, rr, &found)
	if len(found) != 2 {
		t.Errorf("OR search matched %d recipes", len(found))
	}

	// Update and delete.
	rr = do(t, srv, http.MethodPut, idPath("/api/v1/recipes", created.Added.ID), adminToken, map[string]any{
		"name":         "Tarte aux poires",
		"instructions": "Étaler la pâte, garnir, enfourner.",
	})
	if rr.Code != http.StatusOK {
		t.Errorf("update recipe = %d, body %s", rr.Code, rr.Body.String())
	}

	rr = do(t, srv, http.MethodDelete, idPath("/api/v1/recipes", created.Added.ID), adminToken, nil)
	if rr.Code != http.StatusNoContent {
		t.Errorf("delete recipe = %d", rr.Code)
	}
	rr = do(t, srv, http.MethodDelete, idPath("/api/v1/recipes", created.Added.ID), adminToken, nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("delete missing recipe = %d", rr.Code)
	}
}

func TestTagLifecycleAndLinks(t *testing.T) {
	srv, st := newTestServer(t, stubGenerator{})
	adminToken, _ := registerAdmin(t, srv, st, "chef_admin", "root@example.com")
	recipeID := seedRecipe(t, st, "Curry de légumes")

	rr := do(t, srv, http.MethodPost, "/api/v1/tags", adminToken, map[string]string{"name": "Végétarien"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create tag = %d, body %s", rr.Code, rr.Body.String())
	}
	var created struct {
		Message string         `json:"message"`
		NewTag  map[string]any `json:"newTag"`
	}
	decode(t, rr, &created)
	if created.Message != "Tag ajouté" {
		t.Errorf("create message = %q", created.Message)
	}
	tagID := int64(created.NewTag["id_tag"].(float64))

	rr = do(t, srv, http.MethodPost, "/api/v1/tags", adminToken, map[string]string{"name": "végétarien"})
	if rr.Code != http.StatusConflict || message(t, rr) != "Ce tag existe déjà" {
		t.Errorf("duplicate tag: %d %s", rr.Code, rr.Body.String())
	}

	// The tag update endpoint answers 201.
	rr = do(t, srv, http.MethodPut, idPath("/api/v1/tags", tagID), adminToken, map[string]string{"name": "Veggie"})
	if rr.Code != http.StatusCreated {
		t.Errorf("update tag = %d, body %s", rr.Code, rr.Body.String())
	}

	// Link the tag to the recipe, then read it back through the recipe.
	rr = do(t, srv, http.MethodPost, linkPath("/api/v1/tags/link", recipeID, tagID), adminToken, nil)
	if rr.Code != http.StatusCreated {
		t.Fatalf("link tag = %d, body %s", rr.Code, rr.Body.String())
	}

	rr = do(t, srv, http.MethodGet, idPath("/api/v1/tags/recipe", recipeID), "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("tags from recipe = %d, body %s", rr.Code, rr.Body.String())
	}
	var tags []map[string]any
	decode(t, rr, &tags)
	if len(tags) != 1 || tags[0]["name_tag"] != "Veggie" {
		t.Errorf("tags from recipe = %v", tags)
	}

	// Unlink, then unlink again.
	rr = do(t, srv, http.MethodDelete, linkPath("/api/v1/tags/link", recipeID, tagID), adminToken, nil)
	if rr.Code != http.StatusNoContent {
		t.Errorf("unlink tag = %d, body %s", rr.Code, rr.Body.String())
	}
	rr = do(t, srv, http.MethodDelete, linkPath("/api/v1/tags/link", recipeID, tagID), adminToken, nil)
	if rr.Code != http.StatusNotFound || message(t, rr) != "Aucun lien entre cette recette et ce tag n'a été trouvé" {
		t.Errorf("unlink missing: %d %s", rr.Code, rr.Body.String())
	}

	rr = do(t, srv, http.MethodDelete, idPath("/api/v1/tags", tagID), adminToken, nil)
	if rr.Code != http.StatusNoContent {
		t.Errorf("delete tag = %d", rr.Code)
	}
}

func TestIngredientSearchJoinsWithAnd(t *testing.T) {
	srv, st := newTestServer(t, stubGenerator{})
	ctx := context.Background()

	cat, err := st.CreateResource(ctx, store.IngredientCategories, "Produits laitiers")
	if err != nil {
		t.Fatalf("seed category: %v", err)
	}
	catID := resourceID(t, cat, "id_ingredient_category")
	for _, name := range []string{"lait", "lait de coco", "crème de coco"} {
		if _, err := st.CreateIngredient(ctx, name, catID); err != nil {
			t.Fatalf("seed ingredient %s: %v", name, err)
		}
	}

	rr := do(t, srv, http.MethodGet, "/api/v1/ingredients/search/lait+coco", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("search = %d, body %s", rr.Code, rr.Body.String())
	}
	var rows []map[string]any
	decode(t, rr, &rows)
	if len(rows) != 1 || rows[0]["name_ingredient"] != "lait de coco" {
		t.Errorf("AND search = %v", rows)
	}
}

func TestReviewEndpoints(t *testing.T) {
	srv, st := newTestServer(t, stubGenerator{})
	adminToken, _ := registerAdmin(t, srv, st, "chef_admin", "root@example.com")
	aliceToken, _ := register(t, srv, "alice", "alice@example.com")
	recipeID := seedRecipe(t, st, "Ratatouille")

	// Neither comment nor note.
	rr := do(t, srv, http.MethodPost, idPath("/api/v1/reviews", recipeID), aliceToken, map[string]any{})
	if rr.Code != http.StatusBadRequest || message(t, rr) != "Au moins un commentaire ou une note est nécessaire" {
		t.Errorf("empty review: %d %s", rr.Code, rr.Body.String())
	}

	// Note out of range.
	rr = do(t, srv, http.MethodPost, idPath("/api/v1/reviews", recipeID), aliceToken, map[string]any{"note": 6})
	if rr.Code != http.StatusBadRequest || message(t, rr) != "La note doit être comprise entre 0 et 5" {
		t.Errorf("bad note: %d %s", rr.Code, rr.Body.String())
	}

	// Unknown recipe.
	rr = do(t, srv, http.MethodPost, "/api/v1/reviews/9999", aliceToken, map[string]any{"note": 4})
	if rr.Code != http.StatusNotFound || message(t, rr) != "Recette introuvable" {
		t.Errorf("unknown recipe: %d %s", rr.Code, rr.Body.String())
	}

	rr = do(t, srv, http.MethodPost, idPath("/api/v1/reviews", recipeID), aliceToken, map[string]any{
		"comment": "Excellent plat d'été",
		"note":    5,
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("post review = %d, body %s", rr.Code, rr.Body.String())
	}
	var review model.Review
	decode(t, rr, &review)

	// One review per user and recipe.
	rr = do(t, srv, http.MethodPost, idPath("/api/v1/reviews", recipeID), aliceToken, map[string]any{"note": 3})
	if rr.Code != http.StatusConflict || message(t, rr) != "Tu as déjà laissé une review sur cette recette" {
		t.Errorf("duplicate review: %d %s", rr.Code, rr.Body.String())
	}

	// Public read.
	rr = do(t, srv, http.MethodGet, idPath("/api/v1/reviews/recipe", recipeID), "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("reviews from recipe = %d", rr.Code)
	}

	// Admin removes the review.
	rr = do(t, srv, http.MethodDelete, idPath("/api/v1/reviews", review.ID), adminToken, nil)
	if rr.Code != http.StatusNoContent {
		t.Errorf("admin delete review = %d, body %s", rr.Code, rr.Body.String())
	}
}

func TestBannedIngredientOwnership(t *testing.T) {
	srv, st := newTestServer(t, stubGenerator{})
	ctx := context.Background()
	adminToken, _ := registerAdmin(t, srv, st, "chef_admin", "root@example.com")
	aliceToken, aliceID := register(t, srv, "alice", "alice@example.com")
	bobToken, bobID := register(t, srv, "bobby", "bob@example.com")

	cat, err := st.CreateResource(ctx, store.IngredientCategories, "Fruits de mer")
	if err != nil {
		t.Fatalf("seed category: %v", err)
	}
	catID := resourceID(t, cat, "id_ingredient_category")
	ing, err := st.CreateIngredient(ctx, "crevette", catID)
	if err != nil {
		t.Fatalf("seed ingredient: %v", err)
	}
	ingID := resourceID(t, ing, "id_ingredient")

	// A member bans on their own list.
	rr := do(t, srv, http.MethodPost, linkPath("/api/v1/banned/link", aliceID, ingID), aliceToken, nil)
	if rr.Code != http.StatusCreated {
		t.Fatalf("self ban = %d, body %s", rr.Code, rr.Body.String())
	}

	// Not on someone else's.
	rr = do(t, srv, http.MethodPost, linkPath("/api/v1/banned/link", aliceID, ingID), bobToken, nil)
	if rr.Code != http.StatusUnauthorized || message(t, rr) != "Tu n'es pas autorisé à réaliser cette action" {
		t.Errorf("cross-user ban: %d %s", rr.Code, rr.Body.String())
	}
	rr = do(t, srv, http.MethodGet, idPath("/api/v1/banned", aliceID), bobToken, nil)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("cross-user read = %d", rr.Code)
	}

	// Admin bypass.
	rr = do(t, srv, http.MethodGet, idPath("/api/v1/banned", aliceID), adminToken, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("admin read = %d, body %s", rr.Code, rr.Body.String())
	}
	var banned []map[string]any
	decode(t, rr, &banned)
	if len(banned) != 1 || banned[0]["name_ingredient"] != "crevette" {
		t.Errorf("banned list = %v", banned)
	}

	rr = do(t, srv, http.MethodPost, linkPath("/api/v1/banned/link", bobID, ingID), adminToken, nil)
	if rr.Code != http.StatusCreated {
		t.Errorf("admin ban for bob = %d, body %s", rr.Code, rr.Body.String())
	}

	// Unban, then the link is gone.
	rr = do(t, srv, http.MethodDelete, linkPath("/api/v1/banned/link", aliceID, ingID), aliceToken, nil)
	if rr.Code != http.StatusNoContent {
		t.Errorf("self unban = %d, body %s", rr.Code, rr.Body.String())
	}
	rr = do(t, srv, http.MethodDelete, linkPath("/api/v1/banned/link", aliceID, ingID), aliceToken, nil)
	if rr.Code != http.StatusNotFound || message(t, rr) != "Aucun lien entre cet utilisateur et cet ingrédient n'a été trouvé" {
		t.Errorf("unban missing: %d %s", rr.Code, rr.Body.String())
	}
}

func TestDietUserLinks(t *testing.T) {
	srv, st := newTestServer(t, stubGenerator{})
	ctx := context.Background()
	aliceToken, aliceID := register(t, srv, "alice", "alice@example.com")
	bobToken, _ := register(t, srv, "bobby", "bob@example.com")

	diet, err := st.CreateResource(ctx, store.Diets, "Sans gluten")
	if err != nil {
		t.Fatalf("seed diet: %v", err)
	}
	dietID := resourceID(t, diet, "id_diet")

	rr := do(t, srv, http.MethodPost, linkPath("/api/v1/diets/user", aliceID, dietID), aliceToken, nil)
	if rr.Code != http.StatusCreated {
		t.Fatalf("link diet = %d, body %s", rr.Code, rr.Body.String())
	}

	rr = do(t, srv, http.MethodGet, idPath("/api/v1/diets/user", aliceID), aliceToken, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("diets from user = %d, body %s", rr.Code, rr.Body.String())
	}
	var diets []map[string]any
	decode(t, rr, &diets)
	if len(diets) != 1 || diets[0]["name_diet"] != "Sans gluten" {
		t.Errorf("diets = %v", diets)
	}

	rr = do(t, srv, http.MethodGet, idPath("/api/v1/diets/user", aliceID), bobToken, nil)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("cross-user diets = %d", rr.Code)
	}

	rr = do(t, srv, http.MethodDelete, linkPath("/api/v1/diets/user", aliceID, dietID), aliceToken, nil)
	if rr.Code != http.StatusNoContent {
		t.Errorf("unlink diet = %d, body %s", rr.Code, rr.Body.String())
	}
}

func TestAIPictureEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, stubGenerator{
		reply: "```json\n{\"ingredients\": [\"Tomates\", \"bouteille\", \"oignon (rouge)\"]}\n```",
	})
	token, _ := register(t, srv, "alice", "alice@example.com")

	rr := do(t, srv, http.MethodPost, "/api/v1/ai", token, map[string]string{
		"picture": "data:image/jpeg;base64,aGVsbG8gd29ybGQ=",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("ai = %d, body %s", rr.Code, rr.Body.String())
	}
	var resp model.IngredientsResponse
	decode(t, rr, &resp)
	want := []string{"tomates", "oignon rouge"}
	if len(resp.Ingredients) != len(want) {
		t.Fatalf("ingredients = %v, want %v", resp.Ingredients, want)
	}
	for i := range want {
		if resp.Ingredients[i] != want[i] {
			t.Errorf("ingredients[%d] = %q, want %q", i, resp.Ingredients[i], want[i])
		}
	}

	// Invalid image and anonymous access.
	rr = do(t, srv, http.MethodPost, "/api/v1/ai", token, map[string]string{"picture": "pas du base64 !!"})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("bad image = %d, body %s", rr.Code, rr.Body.String())
	}
	rr = do(t, srv, http.MethodPost, "/api/v1/ai", "", map[string]string{"picture": "aGVsbG8="})
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("anonymous ai = %d", rr.Code)
	}
}

func TestAIRecipeEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, stubGenerator{
		reply: `{"name": "Omelette aux champignons", "instructions": "Battre les œufs, cuire.", "preparation_time": 10}`,
	})
	token, _ := register(t, srv, "alice", "alice@example.com")

	rr := do(t, srv, http.MethodPost, "/api/v1/ai/recipe", token, map[string]any{
		"ingredients": []string{"œufs", "champignons"},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("ai recipe = %d, body %s", rr.Code, rr.Body.String())
	}
	var suggestion struct {
		Name string `json:"name"`
	}
	decode(t, rr, &suggestion)
	if suggestion.Name != "Omelette aux champignons" {
		t.Errorf("name = %q", suggestion.Name)
	}

	rr = do(t, srv, http.MethodPost, "/api/v1/ai/recipe", token, map[string]any{"ingredients": []string{}})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("empty ingredients = %d", rr.Code)
	}
}

func idPath(prefix string, id int64) string {
	return prefix + "/" + strconv.FormatInt(id, 10)
}

func linkPath(prefix string, ids ...int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return prefix + "/" + strings.Join(parts, "+")
}

func resourceID(t *testing.T, row map[string]any, col string) int64 {
	t.Helper()
	switch v := row[col].(type) {
	case int64:
		return v
	case float64:
		return int64(v)
	default:
		t.Fatalf("row %v has no usable %s", row, col)
		return 0
	}
}
