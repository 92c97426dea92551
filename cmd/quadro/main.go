package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/rverdone/quadro/internal/config"
	"github.com/rverdone/quadro/internal/folders"
	"github.com/rverdone/quadro/internal/storage"
	"github.com/rverdone/quadro/internal/storage/remote"
	"github.com/rverdone/quadro/internal/storage/sqlite"
	"github.com/rverdone/quadro/internal/vault"
	"github.com/rverdone/quadro/internal/widgets"
)

const usage = `Usage: quadro [-config path] <command> [args]

Commands:
  list [type]            list widgets, optionally filtered by type
  search <term>          match term against widget titles and content
  tag <tag>              list widgets carrying a tag
  tags                   show tag usage counts
  add <type> <title>     add a widget (-content, -url, -tags, -folder flags)
  rm <id>                delete a widget
  folders                list folders
  tree                   print the folder hierarchy
  mkdir <type> <name>    create a folder (-parent flag)
  rmdir <id>             delete a folder
  mv <widget-id> [folder-id]   move a widget, no folder means root
  unlock <credential-id>       prompt for the unlock secret
  storage [toggle]       show or flip the active storage backend
`

type app struct {
	store   *storage.Store
	widgets *widgets.Service
	folders *folders.Service
	vault   *vault.Vault
}

func main() {
	configPath := flag.String("config", config.DefaultConfigPath(), "path to the config file")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fail(err)
	}

	// With remote credentials and the embedded engine both configured, the
	// image is pushed to the service instead of a local file, so other
	// clients restore from the same snapshot.
	var sink sqlite.Sink = &sqlite.FileSink{Path: cfg.SnapshotPath}
	if cfg.RemoteConfigured() && cfg.PreferEmbedded {
		sink = &sqlite.PushSink{BaseURL: cfg.Server.URL, Token: cfg.Server.Token}
	}
	embedded := sqlite.New(sink)

	var remoteDriver storage.Driver
	if cfg.RemoteConfigured() {
		remoteDriver = remote.NewClient(cfg.Server.URL, cfg.Server.Token, cfg.Server.DatabaseID)
	}

	store := storage.New(embedded, remoteDriver, cfg.PreferEmbedded)
	if !store.Init() {
		fmt.Fprintln(os.Stderr, errorStyle.Render("storage initialization failed, continuing degraded"))
	}

	a := &app{
		store:   store,
		widgets: widgets.NewService(store),
		folders: folders.NewService(store),
		vault:   vault.New(store),
	}
	if !a.folders.Init() {
		fmt.Fprintln(os.Stderr, errorStyle.Render("folder initialization failed, folder operations may be unreliable"))
	}

	if err := a.run(args[0], args[1:]); err != nil {
		fail(err)
	}
}

func (a *app) run(command string, args []string) error {
	switch command {
	case "list":
		if len(args) > 0 {
			ws, err := a.widgets.ByType(storage.WidgetType(args[0]))
			if err != nil {
				return err
			}
			printWidgets(ws)
			return nil
		}
		ws, err := a.widgets.All()
		if err != nil {
			return err
		}
		printWidgets(ws)
		return nil

	case "search":
		if len(args) != 1 {
			return fmt.Errorf("usage: quadro search <term>")
		}
		ws, err := a.widgets.Search(args[0])
		if err != nil {
			return err
		}
		printWidgets(ws)
		return nil

	case "tag":
		if len(args) != 1 {
			return fmt.Errorf("usage: quadro tag <tag>")
		}
		ws, err := a.widgets.ByTag(args[0])
		if err != nil {
			return err
		}
		printWidgets(ws)
		return nil

	case "tags":
		counts, err := a.widgets.TagCounts()
		if err != nil {
			return err
		}
		for _, tc := range counts {
			fmt.Printf("%s %d\n", tagStyle.Render(tc.Tag), tc.Count)
		}
		return nil

	case "add":
		return a.addWidget(args)

	case "rm":
		if len(args) != 1 {
			return fmt.Errorf("usage: quadro rm <id>")
		}
		if !a.widgets.Delete(args[0]) {
			return fmt.Errorf("failed to delete widget %s", args[0])
		}
		fmt.Println("deleted", args[0])
		return nil

	case "folders":
		fs, err := a.folders.All()
		if err != nil {
			return err
		}
		for _, f := range fs {
			fmt.Printf("%s %s %s\n", titleStyle.Render(f.Name), idStyle.Render(f.ID), tagStyle.Render(string(f.Type)))
		}
		return nil

	case "tree":
		fs, err := a.folders.Hierarchy()
		if err != nil {
			return err
		}
		for _, f := range fs {
			indent := strings.Repeat("  ", f.Level)
			fmt.Printf("%s%s %s\n", indent, titleStyle.Render(f.Name), idStyle.Render(f.ID))
		}
		return nil

	case "mkdir":
		fset := flag.NewFlagSet("mkdir", flag.ExitOnError)
		parent := fset.String("parent", "", "parent folder id")
		fset.Parse(args)
		rest := fset.Args()
		if len(rest) != 2 {
			return fmt.Errorf("usage: quadro mkdir [-parent id] <type> <name>")
		}
		f, err := a.folders.Create(rest[1], storage.FolderType(rest[0]), *parent)
		if err != nil {
			return err
		}
		fmt.Println("created", f.ID)
		return nil

	case "rmdir":
		if len(args) != 1 {
			return fmt.Errorf("usage: quadro rmdir <id>")
		}
		if !a.folders.Delete(args[0]) {
			return fmt.Errorf("failed to delete folder %s", args[0])
		}
		fmt.Println("deleted", args[0])
		return nil

	case "mv":
		if len(args) < 1 || len(args) > 2 {
			return fmt.Errorf("usage: quadro mv <widget-id> [folder-id]")
		}
		folderID := ""
		if len(args) == 2 {
			folderID = args[1]
		}
		if !a.folders.MoveWidget(args[0], folderID) {
			return fmt.Errorf("failed to move widget %s", args[0])
		}
		fmt.Println("moved", args[0])
		return nil

	case "unlock":
		return a.unlock(args)

	case "storage":
		if len(args) == 1 && args[0] == "toggle" {
			a.store.Toggle()
		}
		fmt.Println("storage backend:", titleStyle.Render(a.store.Type()))
		return nil

	default:
		flag.Usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *app) addWidget(args []string) error {
	fset := flag.NewFlagSet("add", flag.ExitOnError)
	content := fset.String("content", "", "widget content")
	url := fset.String("url", "", "target url for link widgets")
	tags := fset.String("tags", "", "comma-separated tags")
	folderID := fset.String("folder", "", "folder id")
	protected := fset.Bool("protected", false, "require unlock before showing content")
	fset.Parse(args)
	rest := fset.Args()
	if len(rest) != 2 {
		return fmt.Errorf("usage: quadro add [flags] <type> <title>")
	}

	var tagList []string
	if *tags != "" {
		for _, t := range strings.Split(*tags, ",") {
			tagList = append(tagList, strings.TrimSpace(t))
		}
	}

	w, err := a.widgets.Create(widgets.Input{
		Title:       rest[1],
		Content:     *content,
		Type:        storage.WidgetType(rest[0]),
		Tags:        tagList,
		URL:         *url,
		IsProtected: *protected,
		FolderID:    *folderID,
	})
	if err != nil {
		return err
	}
	fmt.Println("created", w.ID)
	return nil
}

func (a *app) unlock(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: quadro unlock <credential-id>")
	}

	w, err := a.widgets.Get(args[0])
	if err != nil {
		return err
	}
	if w == nil {
		return fmt.Errorf("widget %s not found", args[0])
	}

	if hint := a.vault.Hint(w.ID); hint != "" {
		fmt.Println(idStyle.Render("hint: " + hint))
	}

	fmt.Print("Secret: ")
	secret, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("failed to read secret: %w", err)
	}

	if !a.vault.Verify(string(secret), w.ID) {
		return fmt.Errorf("unlock failed for %s", w.ID)
	}
	fmt.Println(titleStyle.Render(w.Title))
	fmt.Println(w.Content)
	for field, value := range w.CustomFields {
		fmt.Printf("%s: %s\n", idStyle.Render(field), value)
	}
	return nil
}

func printWidgets(ws []storage.Widget) {
	for _, w := range ws {
		lock := ""
		if w.IsProtected {
			lock = " " + lockStyle.Render("locked")
		}
		fmt.Printf("%s %s %s%s\n", titleStyle.Render(w.Title), idStyle.Render(w.ID), tagStyle.Render(strings.Join(w.Tags, ",")), lock)
	}
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, errorStyle.Render("Error: ")+err.Error())
	os.Exit(1)
}
