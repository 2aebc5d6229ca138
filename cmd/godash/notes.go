package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kittclouds/godash/internal/store"
	"github.com/kittclouds/godash/internal/view"
)

var (
	notesJSON          bool
	notesSort          string
	notesHideCompleted bool
)

var notesCmd = &cobra.Command{
	Use:   "notes",
	Short: "Manage dashboard notes",
}

// openRepo opens the notes database under the state directory. The caller
// must invoke the returned cleanup.
func openRepo(ctx context.Context) (*store.SQLiteRepository, func(), error) {
	dir, err := stateDir()
	if err != nil {
		return nil, nil, err
	}

	handle := store.NewHandle(filepath.Join(dir, cfg.Database.Path), cfg.Database.Version)
	if err := handle.Open(ctx); err != nil {
		return nil, nil, err
	}

	repo := store.NewSQLiteRepository(handle)
	return repo, func() { handle.Close() }, nil
}

var notesAddCmd = &cobra.Command{
	Use:   "add <text>",
	Short: "Add a note",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		repo, done, err := openRepo(ctx)
		if err != nil {
			fatal("Failed to open notes store", err)
		}
		defer done()

		id, err := repo.Add(ctx, args[0])
		if err != nil {
			fatal("Failed to add note", err)
		}
		fmt.Printf("Added note %d: %s\n", id, store.Normalize(args[0]))
	},
}

var notesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		repo, done, err := openRepo(ctx)
		if err != nil {
			fatal("Failed to open notes store", err)
		}
		defer done()

		notes, err := repo.GetAll(ctx)
		if err != nil {
			fatal("Failed to list notes", err)
		}

		state := view.State{
			Sort:          view.SortOrder(notesSort),
			ShowCompleted: !notesHideCompleted,
		}
		if !state.Sort.Valid() {
			fatal("Invalid sort order", fmt.Errorf("%q (want default, alphabetical, or recency)", notesSort))
		}
		projected := view.Project(notes, state)

		if notesJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(projected); err != nil {
				fatal("Failed to encode notes", err)
			}
			return
		}

		for _, note := range projected {
			mark := " "
			if note.Completed {
				mark = "x"
			}
			fmt.Printf("%4d [%s] %s\n", note.ID, mark, note.Text)
		}
	},
}

var notesEditCmd = &cobra.Command{
	Use:   "edit <id> <text>",
	Short: "Replace a note's text",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		id, err := parseID(args[0])
		if err != nil {
			fatal("Invalid note id", err)
		}

		repo, done, err := openRepo(ctx)
		if err != nil {
			fatal("Failed to open notes store", err)
		}
		defer done()

		if err := repo.UpdateText(ctx, id, args[1]); err != nil {
			fatal("Failed to edit note", err)
		}
		fmt.Printf("Updated note %d: %s\n", id, store.Normalize(args[1]))
	},
}

var notesToggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Flip a note's completed flag",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		id, err := parseID(args[0])
		if err != nil {
			fatal("Invalid note id", err)
		}

		repo, done, err := openRepo(ctx)
		if err != nil {
			fatal("Failed to open notes store", err)
		}
		defer done()

		notes, err := repo.GetAll(ctx)
		if err != nil {
			fatal("Failed to read notes", err)
		}
		var current *store.Note
		for i := range notes {
			if notes[i].ID == id {
				current = &notes[i]
				break
			}
		}
		if current == nil {
			fatal("Failed to toggle note", &store.NotFoundError{ID: id})
		}

		if err := repo.SetCompleted(ctx, id, !current.Completed); err != nil {
			fatal("Failed to toggle note", err)
		}
		status := "open"
		if !current.Completed {
			status = "completed"
		}
		fmt.Printf("Note %d is now %s.\n", id, status)
	},
}

var notesRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a note",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		id, err := parseID(args[0])
		if err != nil {
			fatal("Invalid note id", err)
		}

		repo, done, err := openRepo(ctx)
		if err != nil {
			fatal("Failed to open notes store", err)
		}
		defer done()

		if err := repo.Remove(ctx, id); err != nil {
			fatal("Failed to delete note", err)
		}
		fmt.Printf("Deleted note %d.\n", id)
	},
}

func parseID(raw string) (int64, error) {
	var id int64
	if _, err := fmt.Sscanf(raw, "%d", &id); err != nil {
		return 0, fmt.Errorf("%q is not a note id", raw)
	}
	return id, nil
}

func init() {
	rootCmd.AddCommand(notesCmd)
	notesCmd.AddCommand(notesAddCmd)
	notesCmd.AddCommand(notesListCmd)
	notesCmd.AddCommand(notesEditCmd)
	notesCmd.AddCommand(notesToggleCmd)
	notesCmd.AddCommand(notesRmCmd)

	notesListCmd.Flags().BoolVar(&notesJSON, "json", false, "Output in JSON format")
	notesListCmd.Flags().StringVar(&notesSort, "sort", string(view.SortDefault), "Sort order: default, alphabetical, recency")
	notesListCmd.Flags().BoolVar(&notesHideCompleted, "hide-completed", false, "Hide completed notes")
}
