package http

import (
	"context"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"spentnest/internal/api"
	"spentnest/internal/bus"
	"spentnest/internal/cache"
	"spentnest/internal/core"
	applog "spentnest/internal/log"
	"spentnest/internal/session"
	appweb "spentnest/web"
)

// Exporter appends expenses to an external spreadsheet. Optional; nil
// disables the export endpoint.
type Exporter interface {
	AppendExpenses(ctx context.Context, sheetName string, expenses []core.Expense) error
}

// Each entity list gets its own cache keyed by user id. The TTL bounds
// staleness when a change happens outside this gateway; bus events
// invalidate on changes made through it.
const (
	userListCacheSize = 200
	userListCacheTTL  = 5 * time.Minute
	cacheSweepEvery   = 10 * time.Minute
)

type appMetrics struct {
	uptime        time.Time
	totalRequests int64
	totalLogins   int64
}

type Server struct {
	http.Server
	templates   *template.Template
	backend     *api.Client
	sessions    session.Store
	events      *bus.Bus
	exporter    Exporter
	rateLimiter *rateLimiter
	metrics     *securityMetrics
	appMetrics  appMetrics
	logs        *applog.StructuredLogger

	// Per-user list caches, invalidated through the event bus
	expensesCache *cache.LRUCache[[]core.Expense]
	budgetsCache  *cache.LRUCache[[]core.Budget]
	incomesCache  *cache.LRUCache[[]core.Income]
	savingsCache  *cache.LRUCache[[]core.Saving]
	duesCache     *cache.LRUCache[[]core.Due]

	cacheManager *cache.Manager
	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run server.
func NewServer(addr string, backend *api.Client, sessions session.Store, events *bus.Bus, exporter Exporter) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		backend:     backend,
		sessions:    sessions,
		events:      events,
		exporter:    exporter,
		rateLimiter: newRateLimiter(),
		metrics:     &securityMetrics{},
		appMetrics:  appMetrics{uptime: time.Now()},
		logs:        applog.NewStructuredLogger(applog.New(applog.Config{Component: applog.ComponentHTTP})),

		expensesCache: cache.NewLRUCache[[]core.Expense](userListCacheSize, userListCacheTTL),
		budgetsCache:  cache.NewLRUCache[[]core.Budget](userListCacheSize, userListCacheTTL),
		incomesCache:  cache.NewLRUCache[[]core.Income](userListCacheSize, userListCacheTTL),
		savingsCache:  cache.NewLRUCache[[]core.Saving](userListCacheSize, userListCacheTTL),
		duesCache:     cache.NewLRUCache[[]core.Due](userListCacheSize, userListCacheTTL),

		cacheManager: cache.NewManager(),
	}

	for _, c := range []cache.Cleaner{s.expensesCache, s.budgetsCache, s.incomesCache, s.savingsCache, s.duesCache} {
		s.cacheManager.Register(c)
	}
	s.cacheManager.StartCleanup(cacheSweepEvery)

	// Any committed change drops every cached list for that user so the
	// next partial refresh re-reads from the backend
	events.Subscribe(func(ctx context.Context, ev bus.Event) {
		s.invalidateUser(ev.UserID)
		s.logs.LogEntityChanged(ctx, string(ev.Entity), string(ev.Action), ev.UserID)
	})

	// Parse embedded templates at startup.
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, r)
		}))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)

	// Public pages and auth
	mux.HandleFunc("/", s.withSecurityHeaders(s.handleIndex))
	mux.HandleFunc("/auth/login", s.withSecurityHeaders(s.handleLogin))
	mux.HandleFunc("/auth/signup", s.withSecurityHeaders(s.handleSignup))
	mux.HandleFunc("/auth/logout", s.withSecurityHeaders(s.handleLogout))

	// Signed-in pages
	mux.HandleFunc("/dashboard", s.withSecurityHeaders(s.withSession(s.handleDashboard)))
	mux.HandleFunc("/insights", s.withSecurityHeaders(s.withSession(s.handleInsightsPage)))

	// Expense partials and mutations
	mux.HandleFunc("/ui/expenses", s.withSecurityHeaders(s.withSession(s.handleExpenseList)))
	mux.HandleFunc("/ui/expenses/edit", s.withSecurityHeaders(s.withSession(s.handleExpenseEditForm)))
	mux.HandleFunc("/expenses", s.withSecurityHeaders(s.withSession(s.handleCreateExpense)))
	mux.HandleFunc("/expenses/update", s.withSecurityHeaders(s.withSession(s.handleUpdateExpense)))
	mux.HandleFunc("/expenses/delete", s.withSecurityHeaders(s.withSession(s.handleDeleteExpense)))

	// Budget partials and mutations
	mux.HandleFunc("/ui/budgets", s.withSecurityHeaders(s.withSession(s.handleBudgetPanel)))
	mux.HandleFunc("/ui/budgets/remaining", s.withSecurityHeaders(s.withSession(s.handleRemainingBudget)))
	mux.HandleFunc("/ui/budgets/categories", s.withSecurityHeaders(s.withSession(s.handleBudgetCategories)))
	mux.HandleFunc("/budgets", s.withSecurityHeaders(s.withSession(s.handleCreateBudget)))
	mux.HandleFunc("/budgets/delete", s.withSecurityHeaders(s.withSession(s.handleDeleteBudget)))

	// Income partials and mutations
	mux.HandleFunc("/ui/income", s.withSecurityHeaders(s.withSession(s.handleIncomeList)))
	mux.HandleFunc("/income", s.withSecurityHeaders(s.withSession(s.handleCreateIncome)))
	mux.HandleFunc("/income/delete", s.withSecurityHeaders(s.withSession(s.handleDeleteIncome)))

	// Savings partials and mutations
	mux.HandleFunc("/ui/savings", s.withSecurityHeaders(s.withSession(s.handleSavingsPanel)))
	mux.HandleFunc("/savings", s.withSecurityHeaders(s.withSession(s.handleSaveSaving)))
	mux.HandleFunc("/savings/delete", s.withSecurityHeaders(s.withSession(s.handleDeleteSaving)))

	// Dues partials and mutations
	mux.HandleFunc("/ui/dues", s.withSecurityHeaders(s.withSession(s.handleDuesPanel)))
	mux.HandleFunc("/dues", s.withSecurityHeaders(s.withSession(s.handleCreateDue)))
	mux.HandleFunc("/dues/done", s.withSecurityHeaders(s.withSession(s.handleMarkDueDone)))
	mux.HandleFunc("/dues/delete", s.withSecurityHeaders(s.withSession(s.handleDeleteDue)))

	// Aggregates and chart data
	mux.HandleFunc("/ui/summary", s.withSecurityHeaders(s.withSession(s.handleSummaryCard)))
	mux.HandleFunc("/charts/trend", s.withSecurityHeaders(s.withSession(s.handleTrendChart)))
	mux.HandleFunc("/charts/categories", s.withSecurityHeaders(s.withSession(s.handleCategoryChart)))
	mux.HandleFunc("/charts/savings", s.withSecurityHeaders(s.withSession(s.handleSavingsChart)))
	mux.HandleFunc("/charts/budget-usage", s.withSecurityHeaders(s.withSession(s.handleBudgetUsageChart)))

	// AI insight partials
	mux.HandleFunc("/ui/ai/prediction", s.withSecurityHeaders(s.withSession(s.handleAIPrediction)))
	mux.HandleFunc("/ui/ai/recommendation", s.withSecurityHeaders(s.withSession(s.handleAIRecommendation)))
	mux.HandleFunc("/ui/ai/autobudget", s.withSecurityHeaders(s.withSession(s.handleAIAutoBudget)))
	mux.HandleFunc("/ui/ai/challenge", s.withSecurityHeaders(s.withSession(s.handleAIChallenge)))

	// Spreadsheet export
	mux.HandleFunc("/export/sheets", s.withSecurityHeaders(s.withSession(s.handleExportSheets)))

	return s
}

func (s *Server) invalidateUser(userID string) {
	s.expensesCache.Delete(userID)
	s.budgetsCache.Delete(userID)
	s.incomesCache.Delete(userID)
	s.savingsCache.Delete(userID)
	s.duesCache.Delete(userID)
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}
