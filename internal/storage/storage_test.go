package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFSStore_PutGetListDelete(t *testing.T) {
	ctx := context.Background()
	s, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore: %v", err)
	}

	key, err := s.Put(ctx, "uploads/abc/quiz.csv", strings.NewReader("question\nQ\n"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	rc, err := s.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	b, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(b) != "question\nQ\n" {
		t.Fatalf("content = %q", b)
	}

	if _, err := s.Put(ctx, "other/x.txt", strings.NewReader("x")); err != nil {
		t.Fatalf("Put other: %v", err)
	}
	objs, err := s.List(ctx, UploadPrefix)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(objs) != 1 || objs[0].Key != "uploads/abc/quiz.csv" || objs[0].Size != 11 {
		t.Fatalf("objects = %+v", objs)
	}

	if err := s.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, key); err != nil {
		t.Fatalf("Delete twice: %v", err)
	}
	if _, err := s.Get(ctx, key); err == nil {
		t.Fatal("Get after delete succeeded")
	}
}

func TestFSStore_KeysStayUnderBase(t *testing.T) {
	base := t.TempDir()
	s, _ := NewFSStore(base)
	key, err := s.Put(context.Background(), "../../escape.txt", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if key != "escape.txt" {
		t.Fatalf("canonical key = %q", key)
	}
	if _, err := os.Stat(filepath.Join(base, "escape.txt")); err != nil {
		t.Fatalf("blob not written under base: %v", err)
	}
	if _, err := s.Put(context.Background(), "", strings.NewReader("x")); !errors.Is(err, ErrBadKey) {
		t.Fatalf("empty key err = %v", err)
	}
}

func TestSweeper_RemovesExpired(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	s, _ := NewFSStore(base)
	for _, k := range []string{"uploads/old.csv", "uploads/new.csv", "keep/old.csv"} {
		if _, err := s.Put(ctx, k, strings.NewReader("x")); err != nil {
			t.Fatalf("Put %s: %v", k, err)
		}
	}
	old := time.Now().Add(-2 * time.Hour)
	for _, k := range []string{"uploads/old.csv", "keep/old.csv"} {
		if err := os.Chtimes(filepath.Join(base, filepath.FromSlash(k)), old, old); err != nil {
			t.Fatalf("chtimes: %v", err)
		}
	}

	sw := NewSweeper(s, time.Hour, nil)
	n, err := sw.Sweep(ctx)
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if n != 1 {
		t.Fatalf("removed = %d, want 1", n)
	}
	left, _ := s.List(ctx, "")
	if len(left) != 2 {
		t.Fatalf("left = %+v", left)
	}
}

func TestSweeper_StartRejectsBadSpec(t *testing.T) {
	s, _ := NewFSStore(t.TempDir())
	sw := NewSweeper(s, time.Hour, nil)
	if err := sw.Start("not a cron spec"); err == nil {
		sw.Stop()
		t.Fatal("expected error for bad spec")
	}
	if err := sw.Start("*/15 * * * *"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	sw.Stop()
}
