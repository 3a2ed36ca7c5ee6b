package syncx_test

import (
	"context"
	"testing"

	"github.com/mind-engage/h5pimporter/internal/db"
	syncx "github.com/mind-engage/h5pimporter/internal/sync"
)

func TestEventRepo_AppendSince(t *testing.T) {
	ctx := context.Background()
	dbh, err := db.Open(ctx, db.DriverSQLite, "file:"+t.Name()+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer dbh.Close()

	repo := syncx.NewEventRepo(dbh, "")
	for _, key := range []string{"1", "2"} {
		ev, err := syncx.NewEvent(syncx.TypeContentImported, key, map[string]any{"questions": 3})
		if err != nil {
			t.Fatalf("NewEvent: %v", err)
		}
		if err := repo.Append(ctx, ev); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	all, err := repo.Since(ctx, 0, 10)
	if err != nil {
		t.Fatalf("Since: %v", err)
	}
	if len(all) != 2 || all[0].Key != "1" || all[0].SiteID != "local" || all[0].DataJSON != `{"questions":3}` {
		t.Fatalf("events = %+v", all)
	}
	rest, _ := repo.Since(ctx, all[0].ID, 10)
	if len(rest) != 1 || rest[0].Key != "2" {
		t.Fatalf("since first = %+v", rest)
	}
}
