// Command recipectl is a terminal client for the recipe API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/pageza/recipebox/backend/internal/client"
	"github.com/pageza/recipebox/backend/internal/presentation"
	"github.com/pageza/recipebox/backend/internal/session"
	"github.com/pageza/recipebox/backend/internal/types"
)

const usage = `usage: recipectl [global flags] <command> [flags] [args]

commands:
  login  -email E -password P     store a session token
  logout                          forget the stored token
  list   [-q term]                list recipes, optionally filtered by title
  show   [-check 1,3] <id>        show one recipe, optionally ticking ingredients
  add    -title T -desc D [-ing name,amount,unit]... [-step S]... [-image path]
  edit   <id> -title T -desc D [-ing ...]... [-step ...]... [-image path]
  delete <id>

global flags:
`

// multiFlag collects a repeatable string flag
type multiFlag []string

func (m *multiFlag) String() string { return strings.Join(*m, "; ") }

func (m *multiFlag) Set(v string) error {
	*m = append(*m, v)
	return nil
}

type app struct {
	api   *client.Client
	store session.TokenStore
	guard *session.Guard
	out   io.Writer
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		var loginErr *session.LoginRequiredError
		if errors.As(err, &loginErr) {
			fmt.Fprintf(os.Stderr, "recipectl: %v\nrun: recipectl login -email ... -password ...\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "recipectl: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	global := flag.NewFlagSet("recipectl", flag.ContinueOnError)
	global.SetOutput(stderr)
	global.Usage = func() {
		fmt.Fprint(stderr, usage)
		global.PrintDefaults()
	}

	defaultServer := os.Getenv("RECIPEBOX_URL")
	if defaultServer == "" {
		defaultServer = "http://localhost:8080"
	}
	serverURL := global.String("server", defaultServer, "API base URL")
	tokenFile := global.String("token-file", "", "session token file (default: user config dir)")
	checkExpiry := global.Bool("check-expiry", false, "treat an expired stored token as logged out")

	if err := global.Parse(args); err != nil {
		return err
	}
	if global.NArg() == 0 {
		global.Usage()
		return errors.New("no command given")
	}

	path := *tokenFile
	if path == "" {
		var err error
		if path, err = session.DefaultTokenPath(); err != nil {
			return err
		}
	}
	store := session.NewFileTokenStore(path)

	a := &app{
		api:   client.New(*serverURL),
		store: store,
		guard: &session.Guard{Store: store, CheckExpiry: *checkExpiry},
		out:   stdout,
	}

	cmd, rest := global.Arg(0), global.Args()[1:]
	switch cmd {
	case "login":
		return a.login(ctx, rest)
	case "logout":
		return store.Clear()
	case "list":
		return a.withSession(ctx, rest, a.list)
	case "show":
		return a.withSession(ctx, rest, a.show)
	case "add":
		return a.withSession(ctx, rest, a.add)
	case "edit":
		return a.withSession(ctx, rest, a.edit)
	case "delete":
		return a.withSession(ctx, rest, a.delete)
	default:
		global.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// withSession runs fn only when the guard finds a stored session
func (a *app) withSession(ctx context.Context, args []string, fn func(context.Context, []string) error) error {
	token, err := a.guard.Require()
	if err != nil {
		return err
	}
	a.api.SetToken(token)
	return fn(ctx, args)
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" || *password == "" {
		return errors.New("login needs -email and -password")
	}

	token, err := a.api.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	if err := a.store.Save(token); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	fmt.Fprintln(a.out, "logged in")
	return nil
}

func (a *app) list(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	term := fs.String("q", "", "title filter")
	if err := fs.Parse(args); err != nil {
		return err
	}

	board := presentation.NewBoard(a.api)
	if err := board.Load(ctx); err != nil {
		return err
	}

	recipes := board.Filter(*term)
	if len(recipes) == 0 {
		fmt.Fprintln(a.out, "no recipes")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tDESCRIPTION")
	for _, r := range recipes {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", r.ID, r.Title, r.Description)
	}
	return tw.Flush()
}

func (a *app) show(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	check := fs.String("check", "", "comma-separated ingredient numbers to tick")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := parseID(fs.Args())
	if err != nil {
		return err
	}

	detail, err := presentation.LoadDetail(ctx, a.api, id)
	if err != nil {
		return err
	}
	if *check != "" {
		for _, part := range strings.Split(*check, ",") {
			n, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				return fmt.Errorf("bad ingredient number %q", part)
			}
			if err := detail.Toggle(n - 1); err != nil {
				return err
			}
		}
	}

	r := detail.Recipe
	fmt.Fprintf(a.out, "%s\n%s\n", r.Title, r.Description)
	if img := detail.ImageURL(); img != "" {
		fmt.Fprintf(a.out, "image: %s\n", a.api.ImageURL(img))
	}
	fmt.Fprintln(a.out, "\ningredients:")
	for i, item := range detail.Items {
		mark := " "
		if item.Checked {
			mark = "x"
		}
		fmt.Fprintf(a.out, "  %d. [%s] %s %s %s\n", i+1, mark, item.Name, item.Amount, item.Unit)
	}
	fmt.Fprintln(a.out, "\ninstructions:")
	for i, step := range r.Instructions {
		fmt.Fprintf(a.out, "  %d. %s\n", i+1, step)
	}
	return nil
}

type recipeFlags struct {
	fs    *flag.FlagSet
	title *string
	desc  *string
	image *string
	ings  multiFlag
	steps multiFlag
}

func newRecipeFlags(name string) *recipeFlags {
	rf := &recipeFlags{fs: flag.NewFlagSet(name, flag.ContinueOnError)}
	rf.title = rf.fs.String("title", "", "recipe title")
	rf.desc = rf.fs.String("desc", "", "recipe description")
	rf.image = rf.fs.String("image", "", "path to a photo")
	rf.fs.Var(&rf.ings, "ing", "ingredient as name,amount,unit (repeatable)")
	rf.fs.Var(&rf.steps, "step", "instruction step (repeatable)")
	return rf
}

func (rf *recipeFlags) fields() types.RecipeFields {
	fields := types.RecipeFields{
		Title:        *rf.title,
		Description:  *rf.desc,
		Instructions: rf.steps,
	}
	for _, ing := range rf.ings {
		fields.Ingredients = append(fields.Ingredients, presentation.ParseIngredient(ing))
	}
	return presentation.PrepareFields(fields)
}

// openImage returns nil when no -image was given. The caller closes the file.
func (rf *recipeFlags) openImage() (*client.ImageUpload, io.Closer, error) {
	if *rf.image == "" {
		return nil, nil, nil
	}
	f, err := os.Open(*rf.image)
	if err != nil {
		return nil, nil, err
	}
	return &client.ImageUpload{Name: filepath.Base(*rf.image), Reader: f}, f, nil
}

func (a *app) add(ctx context.Context, args []string) error {
	rf := newRecipeFlags("add")
	if err := rf.fs.Parse(args); err != nil {
		return err
	}
	img, closer, err := rf.openImage()
	if err != nil {
		return err
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}

	recipe, err := a.api.CreateRecipe(ctx, rf.fields(), img)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "created recipe %d\n", recipe.ID)
	return nil
}

func (a *app) edit(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("edit needs a recipe id")
	}
	id, err := parseID(args[:1])
	if err != nil {
		return err
	}

	rf := newRecipeFlags("edit")
	if err := rf.fs.Parse(args[1:]); err != nil {
		return err
	}
	img, closer, err := rf.openImage()
	if err != nil {
		return err
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}

	if err := a.api.UpdateRecipe(ctx, id, rf.fields(), img); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "updated recipe %d\n", id)
	return nil
}

func (a *app) delete(ctx context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}

	board := presentation.NewBoard(a.api)
	if err := board.Load(ctx); err != nil {
		return err
	}
	if err := board.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "deleted recipe %d (%d left)\n", id, len(board.Recipes()))
	return nil
}

func parseID(args []string) (uint, error) {
	if len(args) != 1 {
		return 0, errors.New("expected exactly one recipe id")
	}
	id, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid recipe id %q", args[0])
	}
	return uint(id), nil
}
