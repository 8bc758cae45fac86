package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/paperswipe/backend/internal/arxiv"
	"github.com/paperswipe/backend/internal/auth"
	"github.com/paperswipe/backend/internal/models"
	"github.com/paperswipe/backend/internal/repositories"
	"github.com/paperswipe/backend/pkg/config"
	"github.com/paperswipe/backend/validators"
)

type fakeSource struct {
	papers []arxiv.Paper
}

func (f *fakeSource) Search(ctx context.Context, params arxiv.SearchParams) []arxiv.Paper {
	out := make([]arxiv.Paper, len(f.papers))
	copy(out, f.papers)
	return out
}

func (f *fakeSource) GetPaper(ctx context.Context, id string) *arxiv.Paper {
	for i := range f.papers {
		if f.papers[i].ID == id {
			p := f.papers[i]
			return &p
		}
	}
	return nil
}

type testAPI struct {
	e   *echo.Echo
	db  *gorm.DB
	cfg *config.Config
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	db, err := config.OpenDatabase("sqlite:///" + filepath.Join(t.TempDir(), "api.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	wrapped := &config.DB{Gorm: db}
	t.Cleanup(wrapped.CloseDB)

	cfg := config.Default()
	source := &fakeSource{papers: []arxiv.Paper{
		{ID: "2301.00001v1", ArxivID: "2301.00001v1", Title: "First", PublishedDate: "2023-01-02T00:00:00Z"},
		{ID: "2301.00002v1", ArxivID: "2301.00002v1", Title: "Second", PublishedDate: "2023-01-03T00:00:00Z"},
	}}

	e := echo.New()
	e.Validator = validators.NewValidator()
	config.SetupMiddleware(e, cfg)
	SetupRoutes(e, wrapped, cfg, source)

	return &testAPI{e: e, db: db, cfg: cfg}
}

func (a *testAPI) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

// signup registers and logs in, returning the access token and user id
func (a *testAPI) signup(t *testing.T, email string) (string, uint) {
	t.Helper()

	rec := a.do(t, http.MethodPost, "/api/auth/register", "", echo.Map{"email": email, "password": "password123"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register %s: %d %s", email, rec.Code, rec.Body.String())
	}
	var user models.UserResponse
	decode(t, rec, &user)

	rec = a.do(t, http.MethodPost, "/api/auth/login", "", echo.Map{"email": email, "password": "password123"})
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: %d %s", email, rec.Code, rec.Body.String())
	}
	var pair models.TokenPair
	decode(t, rec, &pair)
	return pair.AccessToken, user.ID
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d: %s", rec.Code, want, rec.Body.String())
	}
}

func paperBody(arxivID string) echo.Map {
	return echo.Map{
		"arxiv_id":       arxivID,
		"title":          "Paper " + arxivID,
		"authors":        []string{"Ada Lovelace"},
		"abstract":       "Abstract.",
		"categories":     []string{"cs.LG"},
		"published_date": "2023-01-02T00:00:00Z",
		"source_url":     "http://arxiv.org/abs/" + arxivID,
	}
}

func TestHealthAndRoot(t *testing.T) {
	api := newTestAPI(t)

	expectStatus(t, api.do(t, http.MethodGet, "/health", "", nil), http.StatusOK)

	rec := api.do(t, http.MethodGet, "/", "", nil)
	expectStatus(t, rec, http.StatusOK)
	if !strings.Contains(rec.Body.String(), "PaperSwipe API") {
		t.Errorf("root body = %s", rec.Body.String())
	}
}

func TestRegisterAndLogin(t *testing.T) {
	api := newTestAPI(t)
	token, userID := api.signup(t, "ada@example.com")

	rec := api.do(t, http.MethodPost, "/api/auth/register", "", echo.Map{"email": "ada@example.com", "password": "password123"})
	expectStatus(t, rec, http.StatusBadRequest)
	if !strings.Contains(rec.Body.String(), "Email already registered") {
		t.Errorf("duplicate register body = %s", rec.Body.String())
	}

	rec = api.do(t, http.MethodPost, "/api/auth/register", "", echo.Map{"email": "not-an-email", "password": "password123"})
	expectStatus(t, rec, http.StatusBadRequest)

	// no password length rule
	rec = api.do(t, http.MethodPost, "/api/auth/register", "", echo.Map{"email": "grace@example.com", "password": "pw"})
	expectStatus(t, rec, http.StatusCreated)
	rec = api.do(t, http.MethodPost, "/api/auth/login", "", echo.Map{"email": "grace@example.com", "password": "pw"})
	expectStatus(t, rec, http.StatusOK)

	rec = api.do(t, http.MethodPost, "/api/auth/register", "", echo.Map{"email": "alan@example.com", "password": ""})
	expectStatus(t, rec, http.StatusBadRequest)

	rec = api.do(t, http.MethodPost, "/api/auth/login", "", echo.Map{"email": "ada@example.com", "password": "wrong-password"})
	expectStatus(t, rec, http.StatusUnauthorized)

	rec = api.do(t, http.MethodPost, "/api/auth/login", "", echo.Map{"email": "nobody@example.com", "password": "password123"})
	expectStatus(t, rec, http.StatusUnauthorized)

	tokens := auth.NewTokenManager(api.cfg.SecretKey, api.cfg.AccessTokenTTL(), api.cfg.RefreshTokenTTL())
	subject, err := tokens.Verify(token, auth.TypeAccess)
	if err != nil {
		t.Fatalf("verify access token: %v", err)
	}
	if subject != userID {
		t.Errorf("subject = %d, want %d", subject, userID)
	}

	rec = api.do(t, http.MethodGet, "/api/users/me", token, nil)
	expectStatus(t, rec, http.StatusOK)
	var me models.UserResponse
	decode(t, rec, &me)
	if me.Email != "ada@example.com" || !me.IsActive {
		t.Errorf("me = %+v", me)
	}
}

func TestRefreshFromCookie(t *testing.T) {
	api := newTestAPI(t)
	api.signup(t, "ada@example.com")

	rec := api.do(t, http.MethodPost, "/api/auth/login", "", echo.Map{"email": "ada@example.com", "password": "password123"})
	expectStatus(t, rec, http.StatusOK)

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "refresh_token" {
			cookie = c
		}
	}
	if cookie == nil || !cookie.HttpOnly {
		t.Fatalf("refresh cookie = %+v", cookie)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	api.e.ServeHTTP(rec, req)
	expectStatus(t, rec, http.StatusOK)
	var pair models.TokenPair
	decode(t, rec, &pair)
	if pair.AccessToken == "" || pair.TokenType != "bearer" {
		t.Errorf("pair = %+v", pair)
	}

	expectStatus(t, api.do(t, http.MethodPost, "/api/auth/refresh", "", echo.Map{}), http.StatusBadRequest)

	// an access token is not accepted as a refresh token
	rec = api.do(t, http.MethodPost, "/api/auth/refresh", "", echo.Map{"refresh_token": pair.AccessToken})
	expectStatus(t, rec, http.StatusUnauthorized)

	// and a refresh token is not accepted as a bearer token
	expectStatus(t, api.do(t, http.MethodGet, "/api/users/me", pair.RefreshToken, nil), http.StatusUnauthorized)

	rec = api.do(t, http.MethodPost, "/api/auth/logout", "", nil)
	expectStatus(t, rec, http.StatusOK)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/api/saved", "", nil)
	expectStatus(t, rec, http.StatusUnauthorized)
	if got := rec.Header().Get(echo.HeaderWWWAuthenticate); got != "Bearer" {
		t.Errorf("WWW-Authenticate = %q", got)
	}

	expectStatus(t, api.do(t, http.MethodGet, "/api/saved", "garbage", nil), http.StatusUnauthorized)
	expectStatus(t, api.do(t, http.MethodGet, "/api/social/feed", "", nil), http.StatusUnauthorized)
	expectStatus(t, api.do(t, http.MethodPost, "/api/papers/interaction", "", echo.Map{}), http.StatusUnauthorized)
}

func TestInactiveUser(t *testing.T) {
	api := newTestAPI(t)
	token, _ := api.signup(t, "ada@example.com")

	if _, err := repositories.NewGormUserRepository(api.db).SetActive("ada@example.com", false); err != nil {
		t.Fatal(err)
	}

	expectStatus(t, api.do(t, http.MethodGet, "/api/users/me", token, nil), http.StatusForbidden)
	expectStatus(t, api.do(t, http.MethodGet, "/api/saved", token, nil), http.StatusForbidden)

	rec := api.do(t, http.MethodPost, "/api/auth/login", "", echo.Map{"email": "ada@example.com", "password": "password123"})
	expectStatus(t, rec, http.StatusForbidden)
}

func TestSearchHidesInteractedPapers(t *testing.T) {
	api := newTestAPI(t)
	token, _ := api.signup(t, "ada@example.com")

	var papers []arxiv.Paper
	rec := api.do(t, http.MethodGet, "/api/papers/search?query=attention", "", nil)
	expectStatus(t, rec, http.StatusOK)
	decode(t, rec, &papers)
	if len(papers) != 2 {
		t.Fatalf("anonymous search: got %d papers", len(papers))
	}

	rec = api.do(t, http.MethodPost, "/api/papers/interaction", token, echo.Map{"arxiv_id": "2301.00001v1", "interaction_type": "dislike"})
	expectStatus(t, rec, http.StatusOK)

	rec = api.do(t, http.MethodGet, "/api/papers/search", token, nil)
	expectStatus(t, rec, http.StatusOK)
	papers = nil
	decode(t, rec, &papers)
	if len(papers) != 1 || papers[0].ID != "2301.00002v1" {
		t.Errorf("authenticated search: got %+v", papers)
	}

	rec = api.do(t, http.MethodPost, "/api/papers/interaction", token, echo.Map{"arxiv_id": "x", "interaction_type": "bookmark"})
	expectStatus(t, rec, http.StatusBadRequest)
}

func TestSearchRejectsBadParameters(t *testing.T) {
	api := newTestAPI(t)

	for _, query := range []string{
		"sort_by=popularity",
		"max_results=0",
		"max_results=101",
		"date_from=2023-13-01",
		"start=-1",
	} {
		rec := api.do(t, http.MethodGet, "/api/papers/search?"+query, "", nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d", query, rec.Code)
		}
	}
}

func TestGetPaper(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/api/papers/2301.00001v1", "", nil)
	expectStatus(t, rec, http.StatusOK)
	var paper arxiv.Paper
	decode(t, rec, &paper)
	if paper.Title != "First" {
		t.Errorf("paper = %+v", paper)
	}

	expectStatus(t, api.do(t, http.MethodGet, "/api/papers/9999.99999", "", nil), http.StatusNotFound)
}

func TestSavedPaperLifecycle(t *testing.T) {
	api := newTestAPI(t)
	token, _ := api.signup(t, "ada@example.com")

	rec := api.do(t, http.MethodPost, "/api/saved", token, paperBody("2301.00001v1"))
	expectStatus(t, rec, http.StatusCreated)
	var saved models.SavedPaperResponse
	decode(t, rec, &saved)
	if !saved.IsPublic || len(saved.Tags) != 0 {
		t.Errorf("saved = %+v", saved)
	}

	rec = api.do(t, http.MethodPost, "/api/saved", token, paperBody("2301.00001v1"))
	expectStatus(t, rec, http.StatusBadRequest)

	var list []models.SavedPaperResponse
	rec = api.do(t, http.MethodGet, "/api/saved", token, nil)
	expectStatus(t, rec, http.StatusOK)
	decode(t, rec, &list)
	if len(list) != 1 {
		t.Fatalf("duplicate save changed the collection: %d papers", len(list))
	}

	path := "/api/saved/" + itoa(saved.ID)
	rec = api.do(t, http.MethodPatch, path, token, echo.Map{"notes": "read twice", "tags": []string{"ml", "reading", "ml"}})
	expectStatus(t, rec, http.StatusOK)
	decode(t, rec, &saved)
	if saved.Notes != "read twice" || len(saved.Tags) != 2 {
		t.Errorf("updated = %+v", saved)
	}

	rec = api.do(t, http.MethodGet, "/api/saved/export?format=bibtex&tag=reading", token, nil)
	expectStatus(t, rec, http.StatusOK)
	if got := rec.Header().Get(echo.HeaderContentType); !strings.HasPrefix(got, "application/x-bibtex") {
		t.Errorf("Content-Type = %q", got)
	}
	if got := rec.Header().Get(echo.HeaderContentDisposition); !strings.Contains(got, "papers.bib") {
		t.Errorf("Content-Disposition = %q", got)
	}
	if !strings.HasPrefix(rec.Body.String(), "@article{") {
		t.Errorf("bibtex = %q", rec.Body.String())
	}

	expectStatus(t, api.do(t, http.MethodGet, "/api/saved/export?format=bibtex&tag=missing", token, nil), http.StatusNotFound)
	expectStatus(t, api.do(t, http.MethodGet, "/api/saved/export?format=docx", token, nil), http.StatusBadRequest)

	expectStatus(t, api.do(t, http.MethodDelete, path, token, nil), http.StatusOK)
	expectStatus(t, api.do(t, http.MethodDelete, path, token, nil), http.StatusNotFound)
	expectStatus(t, api.do(t, http.MethodPatch, path, token, echo.Map{"notes": "gone"}), http.StatusNotFound)

	var tags []models.Tag
	rec = api.do(t, http.MethodGet, "/api/saved/tags", token, nil)
	expectStatus(t, rec, http.StatusOK)
	decode(t, rec, &tags)
	if len(tags) != 2 {
		t.Errorf("tags after delete = %+v", tags)
	}

	expectStatus(t, api.do(t, http.MethodGet, "/api/saved/export?format=csv", token, nil), http.StatusNotFound)
}

func TestSavedPapersAreOwnerScoped(t *testing.T) {
	api := newTestAPI(t)
	adaToken, _ := api.signup(t, "ada@example.com")
	alanToken, _ := api.signup(t, "alan@example.com")

	rec := api.do(t, http.MethodPost, "/api/saved", adaToken, paperBody("2301.00001v1"))
	expectStatus(t, rec, http.StatusCreated)
	var saved models.SavedPaperResponse
	decode(t, rec, &saved)

	path := "/api/saved/" + itoa(saved.ID)
	expectStatus(t, api.do(t, http.MethodPatch, path, alanToken, echo.Map{"notes": "mine"}), http.StatusNotFound)
	expectStatus(t, api.do(t, http.MethodDelete, path, alanToken, nil), http.StatusNotFound)

	// the same paper may be saved by another user
	expectStatus(t, api.do(t, http.MethodPost, "/api/saved", alanToken, paperBody("2301.00001v1")), http.StatusCreated)
}

func TestTags(t *testing.T) {
	api := newTestAPI(t)
	token, _ := api.signup(t, "ada@example.com")

	rec := api.do(t, http.MethodPost, "/api/saved/tags", token, echo.Map{"name": "ml"})
	expectStatus(t, rec, http.StatusCreated)
	var tag models.Tag
	decode(t, rec, &tag)
	if tag.Color != models.DefaultTagColor {
		t.Errorf("color = %q", tag.Color)
	}

	expectStatus(t, api.do(t, http.MethodPost, "/api/saved/tags", token, echo.Map{"name": "ml"}), http.StatusBadRequest)
	expectStatus(t, api.do(t, http.MethodPost, "/api/saved/tags", token, echo.Map{"name": "x", "color": "red"}), http.StatusBadRequest)

	path := "/api/saved/tags/" + itoa(tag.ID)
	expectStatus(t, api.do(t, http.MethodDelete, path, token, nil), http.StatusOK)
	expectStatus(t, api.do(t, http.MethodDelete, path, token, nil), http.StatusNotFound)
}

func TestFollowAndProfile(t *testing.T) {
	api := newTestAPI(t)
	adaToken, adaID := api.signup(t, "ada@example.com")
	_, alanID := api.signup(t, "alan@example.com")

	followPath := "/api/social/follow/" + itoa(alanID)
	profilePath := "/api/social/profile/" + itoa(alanID)

	rec := api.do(t, http.MethodPost, "/api/social/follow/"+itoa(adaID), adaToken, nil)
	expectStatus(t, rec, http.StatusBadRequest)
	if !strings.Contains(rec.Body.String(), "Cannot follow yourself") {
		t.Errorf("self follow body = %s", rec.Body.String())
	}
	expectStatus(t, api.do(t, http.MethodPost, "/api/social/follow/9999", adaToken, nil), http.StatusNotFound)

	expectStatus(t, api.do(t, http.MethodPost, followPath, adaToken, nil), http.StatusOK)
	expectStatus(t, api.do(t, http.MethodPost, followPath, adaToken, nil), http.StatusBadRequest)

	var profile models.UserProfile
	rec = api.do(t, http.MethodGet, profilePath, adaToken, nil)
	expectStatus(t, rec, http.StatusOK)
	decode(t, rec, &profile)
	if !profile.IsFollowing || profile.FollowersCount != 1 {
		t.Errorf("profile = %+v", profile)
	}

	// anonymous viewers never follow anyone
	rec = api.do(t, http.MethodGet, profilePath, "", nil)
	expectStatus(t, rec, http.StatusOK)
	profile = models.UserProfile{}
	decode(t, rec, &profile)
	if profile.IsFollowing {
		t.Errorf("anonymous profile = %+v", profile)
	}

	var following models.FollowingResponse
	rec = api.do(t, http.MethodGet, "/api/social/following", adaToken, nil)
	expectStatus(t, rec, http.StatusOK)
	decode(t, rec, &following)
	if following.Total != 1 || following.Following[0].ID != alanID {
		t.Errorf("following = %+v", following)
	}

	expectStatus(t, api.do(t, http.MethodDelete, followPath, adaToken, nil), http.StatusOK)
	expectStatus(t, api.do(t, http.MethodDelete, followPath, adaToken, nil), http.StatusNotFound)

	rec = api.do(t, http.MethodGet, profilePath, adaToken, nil)
	expectStatus(t, rec, http.StatusOK)
	profile = models.UserProfile{}
	decode(t, rec, &profile)
	if profile.IsFollowing || profile.FollowersCount != 0 {
		t.Errorf("profile after unfollow = %+v", profile)
	}

	expectStatus(t, api.do(t, http.MethodGet, "/api/social/profile/9999", "", nil), http.StatusNotFound)
}

func TestFeedAndTrending(t *testing.T) {
	api := newTestAPI(t)
	adaToken, _ := api.signup(t, "ada@example.com")
	alanToken, alanID := api.signup(t, "alan@example.com")

	var feed []models.FeedItem
	rec := api.do(t, http.MethodGet, "/api/social/feed", adaToken, nil)
	expectStatus(t, rec, http.StatusOK)
	decode(t, rec, &feed)
	if len(feed) != 0 {
		t.Errorf("feed without follows = %+v", feed)
	}

	expectStatus(t, api.do(t, http.MethodPost, "/api/saved", alanToken, paperBody("2301.00001v1")), http.StatusCreated)
	private := paperBody("2301.00002v1")
	private["is_public"] = false
	expectStatus(t, api.do(t, http.MethodPost, "/api/saved", alanToken, private), http.StatusCreated)
	expectStatus(t, api.do(t, http.MethodPost, "/api/social/follow/"+itoa(alanID), adaToken, nil), http.StatusOK)

	rec = api.do(t, http.MethodGet, "/api/social/feed", adaToken, nil)
	expectStatus(t, rec, http.StatusOK)
	decode(t, rec, &feed)
	if len(feed) != 1 {
		t.Fatalf("feed = %+v", feed)
	}
	if feed[0].Action != "saved" || feed[0].User.ID != alanID || feed[0].Paper.ArxivID != "2301.00001v1" {
		t.Errorf("feed item = %+v", feed[0])
	}
	// counts are not computed for feed entries
	if u := feed[0].User; u.FollowersCount != 0 || u.FollowingCount != 0 || u.SavedPapersCount != 0 || !u.IsFollowing {
		t.Errorf("feed user = %+v", u)
	}

	var trending []models.TrendingPaper
	rec = api.do(t, http.MethodGet, "/api/social/trending?days=7&limit=5", "", nil)
	expectStatus(t, rec, http.StatusOK)
	decode(t, rec, &trending)
	if len(trending) != 1 || trending[0].SaveCount != 1 || trending[0].RecentSaves != 1 {
		t.Errorf("trending = %+v", trending)
	}

	expectStatus(t, api.do(t, http.MethodGet, "/api/social/trending?days=31", "", nil), http.StatusBadRequest)
}

func TestImportLocalStorage(t *testing.T) {
	api := newTestAPI(t)
	token, _ := api.signup(t, "ada@example.com")

	local := func(id string) echo.Map {
		return echo.Map{
			"id":            id,
			"title":         "Local " + id,
			"authors":       []string{"Grace Hopper"},
			"abstract":      "Abstract.",
			"categories":    []string{"cs.CL"},
			"publishedDate": "2022-12-20T00:00:00Z",
			"sourceUrl":     "http://arxiv.org/abs/" + id,
			"tags":          []string{"imported"},
		}
	}
	body := echo.Map{
		"preferences": echo.Map{
			"seenPaperIds":     []string{"2301.00001v1"},
			"dislikedPaperIds": []string{"2301.00002v1"},
			"selectedTopics":   []string{"cs.AI", "cs.CL"},
		},
		"saved_papers": []interface{}{
			local("2212.00001v1"),
			local("2212.00002v1"),
			local("2212.00001v1"),
			echo.Map{"title": "no id"},
		},
	}

	rec := api.do(t, http.MethodPost, "/api/migrate/import-localstorage", token, body)
	expectStatus(t, rec, http.StatusOK)
	var result models.MigrationResult
	decode(t, rec, &result)
	if result.Imported != 2 || result.Skipped != 1 || len(result.Errors) != 1 {
		t.Fatalf("result = %+v", result)
	}
	if !strings.Contains(result.Errors[0], "unknown") {
		t.Errorf("error = %q", result.Errors[0])
	}

	var me models.UserResponse
	rec = api.do(t, http.MethodGet, "/api/users/me", token, nil)
	expectStatus(t, rec, http.StatusOK)
	decode(t, rec, &me)
	if strings.Join(me.ResearchInterests, ",") != "cs.AI,cs.CL" {
		t.Errorf("research interests = %v", me.ResearchInterests)
	}

	// seen and disliked papers are hidden from search
	var papers []arxiv.Paper
	rec = api.do(t, http.MethodGet, "/api/papers/search", token, nil)
	expectStatus(t, rec, http.StatusOK)
	decode(t, rec, &papers)
	if len(papers) != 0 {
		t.Errorf("search after import = %+v", papers)
	}

	// running the import again skips everything
	rec = api.do(t, http.MethodPost, "/api/migrate/import-localstorage", token, body)
	expectStatus(t, rec, http.StatusOK)
	result = models.MigrationResult{}
	decode(t, rec, &result)
	if result.Imported != 0 || result.Skipped != 3 {
		t.Errorf("second import = %+v", result)
	}
}

func TestImportPreferencesFailureRollsBack(t *testing.T) {
	api := newTestAPI(t)
	token, _ := api.signup(t, "ada@example.com")

	rec := api.do(t, http.MethodPatch, "/api/users/me", token, echo.Map{"research_interests": []string{"cs.LG"}})
	expectStatus(t, rec, http.StatusOK)

	// interactions are written first, then the interests update aborts
	err := api.db.Exec(`CREATE TRIGGER lock_interests BEFORE UPDATE OF research_interests ON users
BEGIN SELECT RAISE(ABORT, 'research interests locked'); END`).Error
	if err != nil {
		t.Fatalf("create trigger: %v", err)
	}

	body := echo.Map{
		"preferences": echo.Map{
			"seenPaperIds":     []string{"2301.00001v1"},
			"dislikedPaperIds": []string{"2301.00002v1"},
			"selectedTopics":   []string{"cs.AI"},
		},
		"saved_papers": []interface{}{},
	}
	rec = api.do(t, http.MethodPost, "/api/migrate/import-localstorage", token, body)
	expectStatus(t, rec, http.StatusInternalServerError)
	var failure map[string]string
	decode(t, rec, &failure)
	if !strings.HasPrefix(failure["message"], "Migration failed:") {
		t.Errorf("message = %q", failure["message"])
	}

	if err := api.db.Exec("DROP TRIGGER lock_interests").Error; err != nil {
		t.Fatal(err)
	}

	var me models.UserResponse
	rec = api.do(t, http.MethodGet, "/api/users/me", token, nil)
	expectStatus(t, rec, http.StatusOK)
	decode(t, rec, &me)
	if strings.Join(me.ResearchInterests, ",") != "cs.LG" {
		t.Errorf("research interests = %v", me.ResearchInterests)
	}

	var count int64
	if err := api.db.Model(&models.PaperInteraction{}).Count(&count).Error; err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("interactions after failed import = %d, want 0", count)
	}

	var papers []arxiv.Paper
	rec = api.do(t, http.MethodGet, "/api/papers/search", token, nil)
	expectStatus(t, rec, http.StatusOK)
	decode(t, rec, &papers)
	if len(papers) != 2 {
		t.Errorf("search after failed import = %+v", papers)
	}
}

func TestProfileUpdateAndDelete(t *testing.T) {
	api := newTestAPI(t)
	token, _ := api.signup(t, "ada@example.com")

	rec := api.do(t, http.MethodPatch, "/api/users/me", token, echo.Map{"full_name": "Ada Lovelace", "research_interests": []string{"cs.LG"}})
	expectStatus(t, rec, http.StatusOK)
	var me models.UserResponse
	decode(t, rec, &me)
	if me.FullName != "Ada Lovelace" || len(me.ResearchInterests) != 1 {
		t.Errorf("me = %+v", me)
	}

	expectStatus(t, api.do(t, http.MethodPost, "/api/saved", token, paperBody("2301.00001v1")), http.StatusCreated)
	expectStatus(t, api.do(t, http.MethodDelete, "/api/users/me", token, nil), http.StatusNoContent)
	expectStatus(t, api.do(t, http.MethodGet, "/api/users/me", token, nil), http.StatusUnauthorized)
}

func TestTrailingSlash(t *testing.T) {
	api := newTestAPI(t)
	token, _ := api.signup(t, "ada@example.com")

	expectStatus(t, api.do(t, http.MethodGet, "/api/saved/", token, nil), http.StatusOK)
	expectStatus(t, api.do(t, http.MethodGet, "/health/", "", nil), http.StatusOK)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
