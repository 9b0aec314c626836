// Package jellyfintest provides an in-memory Jellyfin server for tests.
package jellyfintest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Nomadcxx/jellyctl/internal/jellyfin"
)

// Call is one request received by the fake.
type Call struct {
	Method string
	Path   string
}

type fakeUser struct {
	user     jellyfin.User
	password string
	policy   map[string]interface{}
}

// Server is a fake Jellyfin server. Played state is shared by all users.
type Server struct {
	Name string

	mu         sync.Mutex
	srv        *httptest.Server
	nextID     int
	users      []*fakeUser
	tokens     map[string]string
	views      []jellyfin.Item
	items      []*jellyfin.Item
	parents    map[string]string
	played     map[string]bool
	sessions   []jellyfin.Session
	files      map[string][]byte
	failDelete map[string]bool
	calls      []Call
}

// New starts a fake server that is shut down when the test ends.
func New(t testing.TB, name string) *Server {
	t.Helper()

	s := &Server{
		Name:       name,
		tokens:     make(map[string]string),
		parents:    make(map[string]string),
		played:     make(map[string]bool),
		files:      make(map[string][]byte),
		failDelete: make(map[string]bool),
	}
	s.srv = httptest.NewServer(s.routes())
	t.Cleanup(s.srv.Close)
	return s
}

// URL returns the base address of the fake.
func (s *Server) URL() string {
	return s.srv.URL
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.SetHeader("Content-Type", "application/json"))
	r.Use(s.record)

	r.Post("/Users/AuthenticateByName", s.handleAuthenticate)

	r.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)

		r.Get("/System/Info", s.handleSystemInfo)

		r.Get("/Users", s.handleListUsers)
		r.Post("/Users/New", s.handleCreateUser)
		r.Get("/Users/{userID}", s.handleGetUser)
		r.Delete("/Users/{userID}", s.handleDeleteUser)
		r.Post("/Users/{userID}/Policy", s.handleSetPolicy)
		r.Get("/Users/{userID}/Views", s.handleViews)
		r.Get("/Users/{userID}/Items", s.handleItems)
		r.Get("/Users/{userID}/Items/{itemID}", s.handleGetItem)
		r.Post("/Users/{userID}/PlayedItems/{itemID}", s.handleSetPlayed(true))
		r.Delete("/Users/{userID}/PlayedItems/{itemID}", s.handleSetPlayed(false))

		r.Get("/Shows/{seriesID}/Episodes", s.handleEpisodes)

		r.Delete("/Items/{itemID}", s.handleDeleteItem)
		r.Post("/Items/{itemID}/Refresh", s.handleNoContent)
		r.Get("/Items/{itemID}/Download", s.handleDownload)

		r.Get("/Sessions", s.handleSessions)
		r.Post("/Sessions/{sessionID}/Message", s.handleNoContent)
		r.Post("/Sessions/{sessionID}/Playing/Stop", s.handleStop)
	})

	return r
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls = append(s.calls, Call{Method: r.Method, Path: r.URL.Path})
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		s.mu.Lock()
		ok := false
		for token := range s.tokens {
			if strings.Contains(header, `Token="`+token+`"`) {
				ok = true
				break
			}
		}
		s.mu.Unlock()
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) newID(prefix string) string {
	s.nextID++
	return fmt.Sprintf("%s-%d", prefix, s.nextID)
}

// AddUser registers a user and returns its id.
func (s *Server) AddUser(name, password string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addUserLocked(name, password).user.ID
}

func (s *Server) addUserLocked(name, password string) *fakeUser {
	u := &fakeUser{
		user:     jellyfin.User{ID: s.newID("user"), Name: name},
		password: password,
		policy:   map[string]interface{}{"EnableAllFolders": true, "IsAdministrator": false},
	}
	s.users = append(s.users, u)
	return u
}

// AddAPIKey accepts key as an access token for every request.
func (s *Server) AddAPIKey(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[key] = ""
}

// HasUser reports whether a user with the given name exists.
func (s *Server) HasUser(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findUserLocked(name) != nil
}

// EnabledFolders returns the library ids a user was limited to.
func (s *Server) EnabledFolders(name string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.findUserLocked(name)
	if u == nil {
		return nil
	}
	raw, _ := u.policy["EnabledFolders"].([]interface{})
	folders := make([]string, 0, len(raw))
	for _, f := range raw {
		folders = append(folders, fmt.Sprint(f))
	}
	return folders
}

func (s *Server) findUserLocked(name string) *fakeUser {
	for _, u := range s.users {
		if u.user.Name == name {
			return u
		}
	}
	return nil
}

// AddView adds a top-level library and returns its id.
func (s *Server) AddView(name, collectionType string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.newID("view")
	s.views = append(s.views, jellyfin.Item{ID: id, Name: name, Type: "CollectionFolder", CollectionType: collectionType})
	return id
}

// AddItem stores an item under a library. An empty item id is assigned.
func (s *Server) AddItem(viewID string, item jellyfin.Item) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if item.ID == "" {
		item.ID = s.newID("item")
	}
	if item.UserData != nil {
		s.played[item.ID] = item.UserData.Played
	}
	it := item
	s.items = append(s.items, &it)
	s.parents[item.ID] = viewID
	return item.ID
}

// Item returns a stored item with its current played state.
func (s *Server) Item(id string) (jellyfin.Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it := s.findItemLocked(id)
	if it == nil {
		return jellyfin.Item{}, false
	}
	return s.withUserDataLocked(*it), true
}

// Played reports the played state of an item.
func (s *Server) Played(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.played[id]
}

// AddSession adds an active session.
func (s *Server) AddSession(session jellyfin.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = append(s.sessions, session)
}

// SetFile sets the content served for an item or media source download.
func (s *Server) SetFile(id string, content []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[id] = content
}

// FailDelete makes deletes of the given ids fail with a server error.
func (s *Server) FailDelete(ids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		s.failDelete[id] = true
	}
}

// Calls returns the paths requested with the given method, in order.
func (s *Server) Calls(method string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, c := range s.calls {
		if c.Method == method {
			out = append(out, c.Path)
		}
	}
	return out
}

func (s *Server) findItemLocked(id string) *jellyfin.Item {
	for _, it := range s.items {
		if it.ID == id {
			return it
		}
	}
	return nil
}

func (s *Server) withUserDataLocked(it jellyfin.Item) jellyfin.Item {
	data := jellyfin.UserData{Played: s.played[it.ID]}
	if data.Played {
		data.PlayCount = 1
	}
	it.UserData = &data
	return it
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleAuthenticate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"Username"`
		Pw       string `json:"Pw"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.findUserLocked(req.Username)
	if u == nil || u.password != req.Pw {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	token := "token-" + u.user.ID
	s.tokens[token] = u.user.ID
	user := u.user
	writeJSON(w, jellyfin.AuthenticationResult{User: &user, AccessToken: token, ServerID: s.Name})
}

func (s *Server) handleSystemInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, jellyfin.SystemInfo{ServerName: s.Name, Version: "10.9.11", ID: s.Name})
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := make([]jellyfin.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u.user)
	}
	writeJSON(w, users)
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"Name"`
		Password string `json:"Password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findUserLocked(req.Name) != nil {
		http.Error(w, "user exists", http.StatusBadRequest)
		return
	}
	writeJSON(w, s.addUserLocked(req.Name, req.Password).user)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "userID")
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.user.ID == id {
			writeJSON(w, map[string]interface{}{"Id": u.user.ID, "Name": u.user.Name, "Policy": u.policy})
			return
		}
	}
	http.NotFound(w, r)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "userID")
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, u := range s.users {
		if u.user.ID == id {
			s.users = append(s.users[:i], s.users[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	http.NotFound(w, r)
}

func (s *Server) handleSetPolicy(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "userID")
	var policy map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&policy); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.user.ID == id {
			u.policy = policy
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	http.NotFound(w, r)
}

func (s *Server) handleViews(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, jellyfin.ItemsResponse{Items: s.views, TotalRecordCount: len(s.views)})
}

func (s *Server) handleItems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	term := strings.ToLower(q.Get("SearchTerm"))
	parent := q.Get("ParentId")
	types := map[string]bool{}
	for _, t := range strings.Split(q.Get("IncludeItemTypes"), ",") {
		if t != "" {
			types[t] = true
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []jellyfin.Item
	for _, it := range s.items {
		if term != "" && !strings.Contains(strings.ToLower(it.Name), term) {
			continue
		}
		if parent != "" && s.parents[it.ID] != parent {
			continue
		}
		if len(types) > 0 && !types[it.Type] {
			continue
		}
		matched = append(matched, s.withUserDataLocked(*it))
	}

	total := len(matched)
	start, _ := strconv.Atoi(q.Get("StartIndex"))
	if start > total {
		start = total
	}
	end := total
	if limit, err := strconv.Atoi(q.Get("Limit")); err == nil && limit > 0 && start+limit < total {
		end = start + limit
	}

	page := matched[start:end]
	if page == nil {
		page = []jellyfin.Item{}
	}
	writeJSON(w, jellyfin.ItemsResponse{Items: page, TotalRecordCount: total, StartIndex: start})
}

func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it := s.findItemLocked(chi.URLParam(r, "itemID"))
	if it == nil {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, s.withUserDataLocked(*it))
}

func (s *Server) handleSetPlayed(played bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "itemID")
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.findItemLocked(id) == nil {
			http.NotFound(w, r)
			return
		}
		s.played[id] = played
		writeJSON(w, jellyfin.UserData{Played: played})
	}
}

func (s *Server) handleEpisodes(w http.ResponseWriter, r *http.Request) {
	seriesID := chi.URLParam(r, "seriesID")
	s.mu.Lock()
	defer s.mu.Unlock()
	episodes := []jellyfin.Item{}
	for _, it := range s.items {
		if it.Type == "Episode" && it.SeriesID == seriesID {
			episodes = append(episodes, s.withUserDataLocked(*it))
		}
	}
	writeJSON(w, jellyfin.ItemsResponse{Items: episodes, TotalRecordCount: len(episodes)})
}

// handleDeleteItem removes an item, or a single media source when the id
// names one.
func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "itemID")
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failDelete[id] {
		http.Error(w, "delete failed", http.StatusInternalServerError)
		return
	}

	for i, it := range s.items {
		if it.ID == id && len(it.MediaSources) <= 1 {
			s.items = append(s.items[:i], s.items[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
		for j, ms := range it.MediaSources {
			if ms.ID == id {
				it.MediaSources = append(it.MediaSources[:j:j], it.MediaSources[j+1:]...)
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
	}
	http.NotFound(w, r)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "itemID")
	s.mu.Lock()
	content, ok := s.files[id]
	name := id
	for _, it := range s.items {
		for _, ms := range it.MediaSources {
			if ms.ID == id && ms.Path != "" {
				name = path.Base(ms.Path)
			}
		}
	}
	s.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	w.Header().Set("Content-Length", strconv.Itoa(len(content)))
	w.Write(content)
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sessions := s.sessions
	if sessions == nil {
		sessions = []jellyfin.Session{}
	}
	writeJSON(w, sessions)
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.sessions {
		if s.sessions[i].ID == id {
			s.sessions[i].NowPlayingItem = nil
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	http.NotFound(w, r)
}

func (s *Server) handleNoContent(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}
