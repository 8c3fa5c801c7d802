package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nikbrunner/pbb/internal/api"
	"github.com/nikbrunner/pbb/internal/bookmark"
	"github.com/nikbrunner/pbb/internal/checker"
	"github.com/nikbrunner/pbb/internal/config"
	"github.com/nikbrunner/pbb/internal/exporter"
	"github.com/nikbrunner/pbb/internal/importer"
	"github.com/nikbrunner/pbb/internal/logger"
	"github.com/nikbrunner/pbb/internal/model"
	"github.com/nikbrunner/pbb/internal/picker"
	"github.com/nikbrunner/pbb/internal/resolver"
	"github.com/nikbrunner/pbb/internal/search"
	"github.com/nikbrunner/pbb/internal/storage"
	"github.com/nikbrunner/pbb/internal/tui"
)

func main() {
	if len(os.Args) >= 2 {
		args := os.Args[2:]
		switch os.Args[1] {
		case "help", "--help", "-h":
			printHelp()
			return
		case "list", "ls":
			runList()
			return
		case "add":
			if len(args) < 2 {
				fmt.Fprintf(os.Stderr, "Usage: pbb add <book> <page> [name]\n")
				os.Exit(1)
			}
			runAdd(args[0], args[1], strings.Join(args[2:], " "))
			return
		case "rename":
			if len(args) < 1 {
				fmt.Fprintf(os.Stderr, "Usage: pbb rename <id> [name]\n")
				os.Exit(1)
			}
			runRename(args[0], strings.Join(args[1:], " "))
			return
		case "rm":
			if len(args) != 1 {
				fmt.Fprintf(os.Stderr, "Usage: pbb rm <id>\n")
				os.Exit(1)
			}
			runRemove(args[0])
			return
		case "clear":
			runClear()
			return
		case "export":
			var outputPath string
			asHTML := false
			for _, arg := range args {
				if arg == "--html" {
					asHTML = true
				} else {
					outputPath = arg
				}
			}
			runExport(outputPath, asHTML)
			return
		case "import":
			if len(args) != 1 {
				fmt.Fprintf(os.Stderr, "Usage: pbb import <file.json|file.html>\n")
				os.Exit(1)
			}
			runImport(args[0])
			return
		case "check":
			runCheck()
			return
		case "resolve":
			if len(args) != 2 {
				fmt.Fprintf(os.Stderr, "Usage: pbb resolve <book> <page>\n")
				os.Exit(1)
			}
			runResolve(args[0], args[1])
			return
		case "glossary":
			if len(args) == 0 {
				fmt.Fprintf(os.Stderr, "Usage: pbb glossary <term>\n")
				os.Exit(1)
			}
			runGlossary(strings.Join(args, " "))
			return
		case "config":
			runConfig()
			return
		default:
			// Treat as search query (join all remaining args)
			runQuickSearch(strings.Join(os.Args[1:], " "))
			return
		}
	}

	// No args - run full TUI
	runTUI(nil, 0)
}

func printHelp() {
	help := `pbb - terminal reader for the Pure Bhakti Base library

Usage:
  pbb                        Open interactive TUI
  pbb <query>                Quick search bookmarks → select → read
  pbb list                   List bookmarks
  pbb add <book> <page> [name]
                             Bookmark a page (book id or title)
  pbb rename <id> [name]     Rename a bookmark (no name restores the default)
  pbb rm <id>                Delete a bookmark
  pbb clear                  Delete all bookmarks
  pbb export [path] [--html] Export bookmarks as JSON (or HTML)
  pbb import <file>          Import bookmarks from JSON or HTML
  pbb check                  Check bookmarks against the library
  pbb resolve <book> <page>  Resolve a page number or label
  pbb glossary <term>        Search the glossary
  pbb config                 Show configuration
  pbb help                   Show this help

TUI Keybindings:
  Screens:
    1/2/3       Catalog / Bookmarks / Glossary

  Navigation:
    j/k         Move down/up (scroll in the reader)
    h/l         Letter tabs / fold contents
    gg/G        Jump to top/bottom
    Enter       Open
    Esc         Back
    /           Filter

  Reader:
    n/p         Next/previous page
    g           Go to page number or label
    Tab         Switch between contents and page
    t           Toggle contents
    b           Toggle bookmark
    B           Named bookmark
    o           Open page image in browser
    Y           Copy reader link

  Bookmarks:
    s           Cycle sort mode
    e           Rename
    d           Delete
    D           Delete all

  Other:
    ?           Show help overlay
    q           Quit

Data Storage:
  ~/.config/pbb/config.json
  ~/.config/pbb/bookmarks.json (or bookmarks.db)
`
	fmt.Print(help)
}

// loadConfig loads the config file, exiting on failure.
func loadConfig() *config.Config {
	configPath, err := config.DefaultConfigFilePath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error getting config path: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// cliLogger logs to stderr at the configured level.
func cliLogger(cfg *config.Config) *slog.Logger {
	return logger.New(logger.Config{Level: logger.ParseLevel(cfg.LogLevel)})
}

// openStore opens the configured bookmark backend. The returned function
// releases it.
func openStore(cfg *config.Config, log *slog.Logger) (*bookmark.Store, func()) {
	backend, closeBackend, err := storage.Open(cfg.Storage, cfg.DataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening bookmarks: %v\n", err)
		os.Exit(1)
	}

	store := bookmark.New(backend, bookmark.WithLogger(log))
	return store, func() {
		if err := closeBackend(); err != nil {
			log.Warn("closing bookmarks", "error", err)
		}
	}
}

func newClient(cfg *config.Config, log *slog.Logger) *api.Client {
	return api.NewClient(api.Options{
		BaseURL:           cfg.APIBaseURL,
		SiteURL:           cfg.SiteURL,
		Timeout:           cfg.RequestTimeout,
		RequestsPerSecond: cfg.RequestsPerSecond,
		Logger:            log,
	})
}

// requestContext bounds a CLI request and cancels it on interrupt.
func requestContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	ctx, cancel := context.WithTimeout(ctx, timeout)
	return ctx, func() {
		cancel()
		stop()
	}
}

// findBook resolves a book id or title against the catalog.
func findBook(ctx context.Context, client *api.Client, ref string) (*model.Book, error) {
	books, err := client.Books(ctx)
	if err != nil {
		return nil, err
	}

	id := model.BookID(strings.TrimSpace(ref))
	for i := range books {
		if books[i].ID.Equal(id) {
			return &books[i], nil
		}
	}

	results := search.Books(books, ref)
	if len(results) == 0 {
		return nil, fmt.Errorf("no book matches %q", ref)
	}
	return results[0].Book, nil
}

// runTUI runs the full interactive TUI, optionally opened at a book page.
func runTUI(start *model.Book, startPage int) {
	cfg := loadConfig()

	logFile, err := logger.OpenFile(cfg.LogPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	log := logger.New(logger.Config{
		Writer: logFile,
		Level:  logger.ParseLevel(cfg.LogLevel),
	})

	store, closeStore := openStore(cfg, log)
	defer closeStore()

	app := tui.NewApp(tui.AppParams{
		Library:        newClient(cfg, log),
		Store:          store,
		Logger:         log,
		RequestTimeout: cfg.RequestTimeout,
		StartBook:      start,
		StartPage:      startPage,
	})
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Error("running app", "error", err)
		fmt.Fprintf(os.Stderr, "Error running app: %v\n", err)
		os.Exit(1)
	}
}

// runQuickSearch performs a fuzzy search and opens the selected bookmark.
func runQuickSearch(query string) {
	cfg := loadConfig()
	store, closeStore := openStore(cfg, cliLogger(cfg))
	results := search.Bookmarks(store.List(), query)
	closeStore()

	if len(results) == 0 {
		fmt.Printf("No bookmarks found for '%s'\n", query)
		os.Exit(0)
	}

	var selected *model.Bookmark

	if len(results) == 1 {
		// Single result - select it directly
		selected = results[0].Bookmark
		fmt.Printf("Opening: %s\n", selected.DisplayName())
	} else {
		// Multiple results - show picker
		p := picker.New(results, query)
		program := tea.NewProgram(p)
		finalModel, err := program.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error running picker: %v\n", err)
			os.Exit(1)
		}

		finalPicker := finalModel.(picker.Picker)
		if finalPicker.Cancelled() {
			os.Exit(0)
		}
		selected = finalPicker.SelectedBookmark()
	}

	if selected == nil {
		os.Exit(0)
	}

	runTUI(&model.Book{ID: selected.BookID, Title: selected.BookTitle}, selected.PageNumber)
}

func runList() {
	cfg := loadConfig()
	store, closeStore := openStore(cfg, cliLogger(cfg))
	defer closeStore()

	list := bookmark.Sort(store.List(), bookmark.SortByBook)
	if len(list) == 0 {
		fmt.Println("No bookmarks")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, b := range list {
		fmt.Fprintf(w, "%s\t%s\tp. %d\t%s\n", b.ID, b.DisplayName(), b.PageNumber, b.CreatedAt.Local().Format("2006-01-02"))
	}
	w.Flush()
}

func runAdd(bookRef, pageRef, name string) {
	cfg := loadConfig()
	log := cliLogger(cfg)
	client := newClient(cfg, log)

	ctx, cancel := requestContext(4 * cfg.RequestTimeout)
	defer cancel()

	book, err := findBook(ctx, client, bookRef)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error finding book: %v\n", err)
		os.Exit(1)
	}

	list, err := client.BookPages(ctx, book.ID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading pages: %v\n", err)
		os.Exit(1)
	}
	page, err := resolver.ResolvePage(pageRef, list.Pages, list.Total)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving page: %v\n", err)
		os.Exit(1)
	}

	store, closeStore := openStore(cfg, log)
	defer closeStore()

	b, err := store.Add(bookmark.AddParams{
		BookID:     book.ID,
		BookTitle:  book.DisplayTitle(),
		PageNumber: page,
		CustomName: name,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error adding bookmark: %v\n", err)
		os.Exit(1)
	}
	if b == nil {
		fmt.Fprintf(os.Stderr, "Error adding bookmark: could not save\n")
		os.Exit(1)
	}
	fmt.Printf("Bookmarked %s (%s)\n", b.DisplayName(), b.ID)
}

func runRename(id, name string) {
	cfg := loadConfig()
	store, closeStore := openStore(cfg, cliLogger(cfg))
	defer closeStore()

	b := store.Update(id, name)
	if b == nil {
		fmt.Fprintf(os.Stderr, "Error renaming bookmark: no bookmark with id %s\n", id)
		os.Exit(1)
	}
	fmt.Printf("Renamed to %s\n", b.DisplayName())
}

func runRemove(id string) {
	cfg := loadConfig()
	store, closeStore := openStore(cfg, cliLogger(cfg))
	defer closeStore()

	if !store.Delete(id) {
		fmt.Fprintf(os.Stderr, "Error deleting bookmark: no bookmark with id %s\n", id)
		os.Exit(1)
	}
	fmt.Println("Deleted")
}

func runClear() {
	cfg := loadConfig()
	store, closeStore := openStore(cfg, cliLogger(cfg))
	defer closeStore()

	n := len(store.List())
	if !store.ClearAll() {
		fmt.Fprintf(os.Stderr, "Error clearing bookmarks\n")
		os.Exit(1)
	}
	fmt.Printf("Deleted %d bookmarks\n", n)
}

// runExport handles the export subcommand.
func runExport(outputPath string, asHTML bool) {
	ext := "json"
	if asHTML {
		ext = "html"
	}

	// Determine output path
	if outputPath == "" {
		var err error
		outputPath, err = exporter.DefaultExportPath(ext)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting default export path: %v\n", err)
			os.Exit(1)
		}
	}

	cfg := loadConfig()
	log := cliLogger(cfg)
	store, closeStore := openStore(cfg, log)
	defer closeStore()

	list := store.List()
	var data string
	if asHTML {
		data = exporter.ExportHTML(list, newClient(cfg, log))
	} else {
		data = store.Export()
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating export directory: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(outputPath, []byte(data), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Exported %d bookmarks to %s\n", len(list), outputPath)
}

// errNotSaved reports that the bookmark slot could not be read or written.
var errNotSaved = errors.New("could not save")

// runImport handles the import subcommand.
func runImport(filePath string) {
	cfg := loadConfig()
	store, closeStore := openStore(cfg, cliLogger(cfg))
	defer closeStore()

	result, ignored, err := importFile(store, filePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error importing bookmarks: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Imported %d bookmarks", result.Added)
	if result.Skipped > 0 {
		fmt.Printf(" (%d already present or invalid)", result.Skipped)
	}
	if ignored > 0 {
		fmt.Printf(" (%d other links ignored)", ignored)
	}
	fmt.Println()
}

// importFile merges filePath into store. HTML files are read as browser
// bookmark exports, anything else as a JSON export. ignored counts HTML
// links that were not reader links.
func importFile(store *bookmark.Store, filePath string) (result *bookmark.ImportResult, ignored int, err error) {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".html", ".htm":
		file, err := os.Open(filePath)
		if err != nil {
			return nil, 0, err
		}
		defer file.Close()

		parsed, err := importer.ParseHTMLBookmarks(file)
		if err != nil {
			return nil, 0, fmt.Errorf("parse HTML: %w", err)
		}
		ignored = parsed.Skipped
		result = store.ImportBookmarks(parsed.Bookmarks)
	default:
		data, err := os.ReadFile(filePath)
		if err != nil {
			return nil, 0, err
		}
		result, err = store.Import(string(data))
		if err != nil {
			return nil, 0, err
		}
	}

	if result == nil {
		return nil, 0, errNotSaved
	}
	return result, ignored, nil
}

func runCheck() {
	cfg := loadConfig()
	log := cliLogger(cfg)
	store, closeStore := openStore(cfg, log)
	list := store.List()
	closeStore()

	if len(list) == 0 {
		fmt.Println("No bookmarks to check")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results := checker.Check(ctx, newClient(cfg, log), list, cfg.CheckConcurrency, func(completed, total int) {
		fmt.Fprintf(os.Stderr, "\rChecking books %d/%d", completed, total)
	})
	fmt.Fprintln(os.Stderr)

	failed := checker.Failed(results)
	if len(failed) == 0 {
		fmt.Printf("All %d bookmarks ok\n", len(results))
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, r := range failed {
		detail := r.Error
		if r.Status == checker.PageOutOfRange {
			detail = fmt.Sprintf("book has %d pages", r.TotalPages)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Bookmark.ID, r.Bookmark.DisplayName(), r.Status, detail)
	}
	w.Flush()
	fmt.Printf("%d of %d bookmarks need attention\n", len(failed), len(results))
	os.Exit(1)
}

func runResolve(bookRef, pageRef string) {
	cfg := loadConfig()
	client := newClient(cfg, cliLogger(cfg))

	ctx, cancel := requestContext(4 * cfg.RequestTimeout)
	defer cancel()

	book, err := findBook(ctx, client, bookRef)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error finding book: %v\n", err)
		os.Exit(1)
	}
	list, err := client.BookPages(ctx, book.ID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading pages: %v\n", err)
		os.Exit(1)
	}

	page, err := resolver.ResolvePage(pageRef, list.Pages, list.Total)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving page: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%s: p. %s (%d/%d)\n", book.DisplayTitle(), resolver.PageLabel(list.Pages, page), page, list.Total)
	fmt.Println(client.ReaderURL(book.ID, page))
}

func runGlossary(term string) {
	cfg := loadConfig()
	client := newClient(cfg, cliLogger(cfg))

	ctx, cancel := requestContext(cfg.RequestTimeout)
	defer cancel()

	results, err := client.SearchGlossary(ctx, term, 1, 20)
	if errors.Is(err, api.ErrInappropriateQuery) {
		fmt.Println(err)
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error searching glossary: %v\n", err)
		os.Exit(1)
	}

	if len(results.Terms) == 0 {
		fmt.Printf("No glossary entries for '%s'\n", term)
		return
	}
	for _, t := range results.Terms {
		fmt.Println(t.Term)
		if t.BookName != "" {
			fmt.Printf("  (%s)\n", t.BookName)
		}
		fmt.Printf("  %s\n\n", t.Description)
	}
	if results.Total > len(results.Terms) {
		fmt.Printf("Showing %d of %d entries\n", len(results.Terms), results.Total)
	}
}

func runConfig() {
	configPath, err := config.DefaultConfigFilePath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error getting config path: %v\n", err)
		os.Exit(1)
	}
	cfg := loadConfig()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "config\t%s\n", configPath)
	fmt.Fprintf(w, "api_base_url\t%s\n", cfg.APIBaseURL)
	fmt.Fprintf(w, "site_url\t%s\n", cfg.SiteURL)
	fmt.Fprintf(w, "storage\t%s\n", cfg.Storage)
	fmt.Fprintf(w, "data_dir\t%s\n", cfg.DataDir)
	fmt.Fprintf(w, "log_level\t%s\n", cfg.LogLevel)
	fmt.Fprintf(w, "log_file\t%s\n", cfg.LogPath())
	fmt.Fprintf(w, "request_timeout\t%s\n", cfg.RequestTimeout)
	fmt.Fprintf(w, "requests_per_second\t%s\n", strconv.FormatFloat(cfg.RequestsPerSecond, 'f', -1, 64))
	fmt.Fprintf(w, "check_concurrency\t%d\n", cfg.CheckConcurrency)
	w.Flush()
}
