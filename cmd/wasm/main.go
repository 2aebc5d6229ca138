//go:build js && wasm

package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"syscall/js"

	"github.com/hack-pad/hackpadfs/indexeddb"

	"github.com/kittclouds/godash/internal/config"
	"github.com/kittclouds/godash/internal/cookies"
	"github.com/kittclouds/godash/internal/dashboard"
	"github.com/kittclouds/godash/internal/feed"
	"github.com/kittclouds/godash/internal/kv"
	"github.com/kittclouds/godash/internal/profile"
	"github.com/kittclouds/godash/internal/shell"
	"github.com/kittclouds/godash/internal/store"
	"github.com/kittclouds/godash/internal/view"
	"github.com/kittclouds/godash/internal/worker"
)

// Version info
const Version = "1.0.0"

// Global state, wired up by initialize.
var (
	cfg      config.Config
	ctrl     *dashboard.Controller
	profiles *profile.Manager
	posts    *feed.Client
	jar      *cookies.Jar
	cache    *shell.Shell
)

func main() {
	cfg = config.Default()
	println("[GoDash] WASM Ready v" + Version)

	// Register exports
	js.Global().Set("GoDash", js.ValueOf(map[string]interface{}{
		"version":    js.FuncOf(getVersion),
		"initialize": js.FuncOf(initialize),
		// Notes API
		"addNote":          js.FuncOf(addNote),
		"beginEdit":        js.FuncOf(beginEdit),
		"commitEdit":       js.FuncOf(commitEdit),
		"toggleNote":       js.FuncOf(toggleNote),
		"deleteNote":       js.FuncOf(deleteNote),
		"setSort":          js.FuncOf(setSort),
		"setShowCompleted": js.FuncOf(setShowCompleted),
		"refreshNotes":     js.FuncOf(refreshNotes),
		// Profile & theme API
		"saveProfile": js.FuncOf(saveProfile),
		"loadProfile": js.FuncOf(loadProfile),
		"theme":       js.FuncOf(getTheme),
		"toggleTheme": js.FuncOf(toggleTheme),
		// Feed API
		"nextPosts": js.FuncOf(nextPosts),
		"resetFeed": js.FuncOf(resetFeed),
		// Cookie API
		"setCookie":    js.FuncOf(setCookie),
		"listCookies":  js.FuncOf(listCookies),
		"clearCookies": js.FuncOf(clearCookies),
		// Worker API
		"startWorker": js.FuncOf(startWorker),
		// Offline shell API
		"installShell":  js.FuncOf(installShell),
		"activateShell": js.FuncOf(activateShell),
		"serveAsset":    js.FuncOf(serveAsset),
	}))

	select {}
}

// jsRenderer pushes the projected note list to the page's render callback
// as a JSON string.
type jsRenderer struct {
	callback js.Value
}

func (r jsRenderer) Render(notes []store.Note) {
	bytes, err := json.Marshal(notes)
	if err != nil {
		println("[GoDash] render marshal failed: " + err.Error())
		return
	}
	r.callback.Invoke(string(bytes))
}

// jsNotifier forwards transient notices to the page's toast callback.
type jsNotifier struct {
	callback js.Value
}

func (n jsNotifier) Notify(message string) {
	n.callback.Invoke(message)
}

// documentCookies gives the jar document.cookie semantics directly.
type documentCookies struct{}

func (documentCookies) Read() string {
	return js.Global().Get("document").Get("cookie").String()
}

func (documentCookies) Write(setString string) error {
	js.Global().Get("document").Set("cookie", setString)
	return nil
}

// getVersion returns the module version.
func getVersion(this js.Value, args []js.Value) interface{} {
	return Version
}

// initialize wires up the dashboard components.
// Args: [renderCallback func(notesJSON), notifyCallback func(message)]
func initialize(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return errorResult("requires 2 args: renderCallback, notifyCallback")
	}
	ctx := context.Background()
	log := slog.Default()

	fs, err := indexeddb.NewFS(ctx, cfg.Database.Name, indexeddb.Options{})
	if err != nil {
		return errorResult("failed to create idb fs: " + err.Error())
	}

	kvStore, err := kv.NewFileStore(fs, "localstore")
	if err != nil {
		return errorResult("failed to create kv store: " + err.Error())
	}
	profiles = profile.NewManager(kvStore, log)

	// The repository stays wired to the handle even when open fails; every
	// notes operation then surfaces storage-unavailable while the rest of
	// the dashboard keeps working.
	handle := store.NewHandle(":memory:", cfg.Database.Version)
	if err := handle.Open(ctx); err != nil {
		println("[GoDash] notes storage unavailable: " + err.Error())
	}
	repo := store.NewSQLiteRepository(handle)
	ctrl = dashboard.New(repo, jsRenderer{args[0]}, jsNotifier{args[1]}, log)

	posts = feed.NewClient(cfg.Feed.BaseURL, cfg.Feed.PageSize, nil, log)
	jar = cookies.NewJar(documentCookies{})
	cache = shell.New(fs, shell.NewHTTPFetcher("", nil), cfg.Shell.Version, cfg.Shell.Assets, log)

	// Initial render, same as the page reading the store once the
	// connection is up.
	if !handle.Unavailable() {
		if err := ctrl.Refresh(ctx); err != nil {
			return errorResult("initial load failed: " + err.Error())
		}
	}
	return successResult("initialized")
}

// addNote: [text string]
func addNote(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorResult("requires 1 arg: text")
	}
	if ctrl == nil {
		return errorResult("not initialized")
	}
	if err := ctrl.Add(context.Background(), args[0].String()); err != nil {
		return errorResult(err.Error())
	}
	return successResult("added")
}

// beginEdit: [id int]
func beginEdit(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorResult("requires 1 arg: id")
	}
	if ctrl == nil {
		return errorResult("not initialized")
	}
	ctrl.BeginEdit(int64(args[0].Int()))
	return successResult("editing")
}

// commitEdit: [id int, text string]
func commitEdit(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return errorResult("requires 2 args: id, text")
	}
	if ctrl == nil {
		return errorResult("not initialized")
	}
	if err := ctrl.CommitEdit(context.Background(), int64(args[0].Int()), args[1].String()); err != nil {
		return errorResult(err.Error())
	}
	return successResult("committed")
}

// toggleNote: [id int]
func toggleNote(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorResult("requires 1 arg: id")
	}
	if ctrl == nil {
		return errorResult("not initialized")
	}
	if err := ctrl.Toggle(context.Background(), int64(args[0].Int())); err != nil {
		return errorResult(err.Error())
	}
	return successResult("toggled")
}

// deleteNote: [id int]
func deleteNote(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorResult("requires 1 arg: id")
	}
	if ctrl == nil {
		return errorResult("not initialized")
	}
	if err := ctrl.Delete(context.Background(), int64(args[0].Int())); err != nil {
		return errorResult(err.Error())
	}
	return successResult("deleted")
}

// setSort: [order string] - "default" | "alphabetical" | "recency"
func setSort(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorResult("requires 1 arg: order")
	}
	if ctrl == nil {
		return errorResult("not initialized")
	}
	if err := ctrl.SetSort(context.Background(), view.SortOrder(args[0].String())); err != nil {
		return errorResult(err.Error())
	}
	return successResult("sorted")
}

// setShowCompleted: [show bool]
func setShowCompleted(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorResult("requires 1 arg: show")
	}
	if ctrl == nil {
		return errorResult("not initialized")
	}
	if err := ctrl.SetShowCompleted(context.Background(), args[0].Bool()); err != nil {
		return errorResult(err.Error())
	}
	return successResult("filtered")
}

// refreshNotes re-fetches, re-projects, and re-renders.
func refreshNotes(this js.Value, args []js.Value) interface{} {
	if ctrl == nil {
		return errorResult("not initialized")
	}
	if err := ctrl.Refresh(context.Background()); err != nil {
		return errorResult(err.Error())
	}
	return successResult("refreshed")
}

// saveProfile: [profileJSON string]
func saveProfile(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorResult("requires 1 arg: profileJSON")
	}
	if profiles == nil {
		return errorResult("not initialized")
	}
	var p profile.Profile
	if err := json.Unmarshal([]byte(args[0].String()), &p); err != nil {
		return errorResult("invalid profile json: " + err.Error())
	}
	if err := profiles.Save(p); err != nil {
		return errorResult("Please fill out all fields.")
	}
	return successResult(p.Greeting())
}

// loadProfile returns {profile, complete, greeting} as JSON.
func loadProfile(this js.Value, args []js.Value) interface{} {
	if profiles == nil {
		return errorResult("not initialized")
	}
	p, complete, err := profiles.Load()
	if err != nil {
		return errorResult(err.Error())
	}
	result := map[string]interface{}{
		"profile":  p,
		"complete": complete,
	}
	if complete {
		result["greeting"] = p.Greeting()
	}
	bytes, _ := json.Marshal(result)
	return string(bytes)
}

// theme returns the persisted theme preference.
func getTheme(this js.Value, args []js.Value) interface{} {
	if profiles == nil {
		return errorResult("not initialized")
	}
	theme, err := profiles.Theme()
	if err != nil {
		return errorResult(err.Error())
	}
	return theme
}

// toggleTheme flips the theme and returns the new value.
func toggleTheme(this js.Value, args []js.Value) interface{} {
	if profiles == nil {
		return errorResult("not initialized")
	}
	theme, err := profiles.ToggleTheme()
	if err != nil {
		return errorResult(err.Error())
	}
	return theme
}

// nextPosts fetches the next feed page and returns it as a JSON array.
func nextPosts(this js.Value, args []js.Value) interface{} {
	if posts == nil {
		return errorResult("not initialized")
	}
	page, err := posts.Next(context.Background())
	if err != nil {
		return errorResult(err.Error())
	}
	if page == nil {
		page = []feed.Post{}
	}
	bytes, _ := json.Marshal(page)
	return string(bytes)
}

// resetFeed rewinds the feed cursor.
func resetFeed(this js.Value, args []js.Value) interface{} {
	if posts == nil {
		return errorResult("not initialized")
	}
	posts.Reset()
	return successResult("reset")
}

// setCookie: [name string, value string, days int]
func setCookie(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return errorResult("requires 3 args: name, value, days")
	}
	if jar == nil {
		return errorResult("not initialized")
	}
	if err := jar.Set(args[0].String(), args[1].String(), args[2].Int()); err != nil {
		return errorResult("Please enter both Name and Value!")
	}
	return successResult("cookie set")
}

// listCookies returns the decoded cookies as a JSON array.
func listCookies(this js.Value, args []js.Value) interface{} {
	if jar == nil {
		return errorResult("not initialized")
	}
	all := jar.All()
	if all == nil {
		all = []cookies.Cookie{}
	}
	bytes, _ := json.Marshal(all)
	return string(bytes)
}

// clearCookies deletes every cookie.
func clearCookies(this js.Value, args []js.Value) interface{} {
	if jar == nil {
		return errorResult("not initialized")
	}
	if err := jar.Clear(); err != nil {
		return errorResult(err.Error())
	}
	return successResult("cleared")
}

// startWorker: [progressCallback func(messageJSON)]
// Streams protocol messages to the callback from a goroutine so the
// binding returns immediately.
func startWorker(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorResult("requires 1 arg: progressCallback")
	}
	callback := args[0]
	job := worker.New(cfg.Worker.Total, slog.Default())

	go func() {
		for msg := range job.Run(context.Background()) {
			bytes, err := json.Marshal(msg)
			if err != nil {
				continue
			}
			callback.Invoke(string(bytes))
		}
	}()
	return successResult("started " + job.ID)
}

// installShell caches the static assets for the current version.
func installShell(this js.Value, args []js.Value) interface{} {
	if cache == nil {
		return errorResult("not initialized")
	}
	if err := cache.Install(context.Background()); err != nil {
		return errorResult(err.Error())
	}
	return successResult("installed " + cache.Version())
}

// activateShell drops caches left behind by older versions.
func activateShell(this js.Value, args []js.Value) interface{} {
	if cache == nil {
		return errorResult("not initialized")
	}
	if err := cache.Activate(context.Background()); err != nil {
		return errorResult(err.Error())
	}
	return successResult("activated " + cache.Version())
}

// serveAsset: [path string] - returns the asset body, cache-first.
func serveAsset(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorResult("requires 1 arg: path")
	}
	if cache == nil {
		return errorResult("not initialized")
	}
	body, err := cache.Serve(context.Background(), args[0].String())
	if err != nil {
		return errorResult(err.Error())
	}
	return string(body)
}

// Helper: Create error result
func errorResult(msg string) interface{} {
	result := map[string]interface{}{
		"error": msg,
	}
	jsonBytes, _ := json.Marshal(result)
	return string(jsonBytes)
}

// Helper: Create success result
func successResult(msg string) interface{} {
	result := map[string]interface{}{
		"success": msg,
	}
	jsonBytes, _ := json.Marshal(result)
	return string(jsonBytes)
}
