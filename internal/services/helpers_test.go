package services

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"sync"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/power-status-tracker/internal/repo"
	"github.com/tbourn/power-status-tracker/internal/telegram"
)

// newServiceDB opens a migrated SQLite DB in a temp dir.
func newServiceDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("svc_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

// ----- Fake gateway -----

type sent struct {
	chatID    int64
	text      string
	parseMode string
}

type fakeGateway struct {
	mu         sync.Mutex
	configured bool
	results    map[int64]telegram.Result
	panics     map[int64]bool
	calls      []sent

	me    *telegram.BotInfo
	meErr error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		configured: true,
		results:    map[int64]telegram.Result{},
		panics:     map[int64]bool{},
	}
}

func (g *fakeGateway) Configured() bool { return g.configured }

func (g *fakeGateway) Deliver(_ context.Context, chatID int64, text string, opts ...telegram.SendOption) telegram.Result {
	v := url.Values{}
	for _, o := range opts {
		o(v)
	}
	g.mu.Lock()
	g.calls = append(g.calls, sent{chatID: chatID, text: text, parseMode: v.Get("parse_mode")})
	g.mu.Unlock()

	if g.panics[chatID] {
		panic("gateway exploded")
	}
	if r, ok := g.results[chatID]; ok {
		return r
	}
	return telegram.Result{OK: true, Outcome: telegram.OutcomeDelivered}
}

func (g *fakeGateway) GetMe(context.Context) (*telegram.BotInfo, error) {
	return g.me, g.meErr
}

func (g *fakeGateway) chatIDs() []int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]int64, 0, len(g.calls))
	for _, c := range g.calls {
		out = append(out, c.chatID)
	}
	return out
}

func rejected(desc string) telegram.Result {
	return telegram.Result{Outcome: telegram.OutcomeRejected, Description: desc, ErrorCode: 403}
}

func newTestNotifier(t *testing.T, db *gorm.DB, gw *fakeGateway) *NotificationService {
	t.Helper()
	s := NewNotificationService(db, repo.SubscriberStore{}, gw)
	s.Logger = zerolog.Nop()
	return s
}
