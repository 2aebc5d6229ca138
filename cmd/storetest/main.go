package main

import (
	"context"
	"fmt"
	"log"

	"github.com/kittclouds/godash/internal/store"
)

func main() {
	fmt.Println("Testing MemRepository...")
	testRepository(store.NewMemRepository())

	fmt.Println("\nTesting SQLiteRepository...")
	handle := store.NewHandle(":memory:", store.SchemaVersion)
	if err := handle.Open(context.Background()); err != nil {
		log.Fatalf("Open failed: %v", err)
	}
	testRepository(store.NewSQLiteRepository(handle))

	fmt.Println("\n✅ All tests passed!")
}

func testRepository(repo store.Repository) {
	ctx := context.Background()
	defer repo.Close()

	id, err := repo.Add(ctx, "  buy   milk  ")
	if err != nil {
		log.Fatalf("Add failed: %v", err)
	}
	fmt.Println("  ✓ Add works")

	notes, err := repo.GetAll(ctx)
	if err != nil {
		log.Fatalf("GetAll failed: %v", err)
	}
	if len(notes) != 1 {
		log.Fatalf("GetAll expected 1 note, got %d", len(notes))
	}
	if notes[0].Text != "buy milk" {
		log.Fatalf("Add did not normalize text, got %q", notes[0].Text)
	}
	fmt.Println("  ✓ GetAll works")

	if err := repo.UpdateText(ctx, id, "buy oat milk"); err != nil {
		log.Fatalf("UpdateText failed: %v", err)
	}
	if err := repo.SetCompleted(ctx, id, true); err != nil {
		log.Fatalf("SetCompleted failed: %v", err)
	}

	notes, err = repo.GetAll(ctx)
	if err != nil {
		log.Fatalf("GetAll failed: %v", err)
	}
	if notes[0].Text != "buy oat milk" || !notes[0].Completed {
		log.Fatalf("patch did not stick: %+v", notes[0])
	}
	fmt.Println("  ✓ UpdateText and SetCompleted work")

	if err := repo.Remove(ctx, id); err != nil {
		log.Fatalf("Remove failed: %v", err)
	}
	if err := repo.Remove(ctx, id); err != nil {
		log.Fatalf("Remove is not idempotent: %v", err)
	}
	fmt.Println("  ✓ Remove works")
}
