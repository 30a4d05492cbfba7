// Command schoolctl is a terminal client for the school directory API.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"schoolhub/internal/client"
	"schoolhub/internal/config"
	"schoolhub/internal/domain/school"
	"schoolhub/internal/logger"
	"schoolhub/internal/views"
)

const usage = `usage: schoolctl <command> [flags]

commands:
  list    [-q query]              list schools, optionally filtered by name or city
  add     -name -email_id [...]   add a school
  edit    -id ID [field flags]    update the given fields of a school
  delete  -id ID [-y]             delete a school
  watch                           print changes as they happen
`

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	if err := logger.Init(&logger.Config{Level: "warn", Format: "text", Output: "stderr"}); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdin, os.Stdout)
	stop()

	if errors.Is(err, flag.ErrHelp) {
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, in io.Reader, out io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(out, usage)
		return flag.ErrHelp
	}

	cfg, err := config.LoadClient()
	if err != nil {
		return err
	}
	api, err := client.New(cfg.APIBaseURL, client.WithTimeout(cfg.Timeout))
	if err != nil {
		return err
	}
	store := client.NewStore(api)

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "list":
		return runList(ctx, api, store, rest, out)
	case "add":
		return runAdd(ctx, store, rest, out)
	case "edit":
		return runEdit(ctx, api, store, rest, out)
	case "delete":
		return runDelete(ctx, api, store, rest, in, out)
	case "watch":
		return runWatch(ctx, api, out)
	default:
		fmt.Fprint(out, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func runList(ctx context.Context, api *client.Client, store *client.Store, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	query := fs.String("q", "", "filter by name or city")
	if err := fs.Parse(args); err != nil {
		return err
	}

	view := views.NewListView(store, api.ImageURL, nil)
	view.SetQuery(*query)
	// The error is already in the store state and rendered below.
	fetchErr := view.Mount(ctx)
	if err := view.Render(out); err != nil {
		return err
	}
	return fetchErr
}

// fieldFlags registers one string flag per editable field.
func fieldFlags(fs *flag.FlagSet) (map[string]*string, *string) {
	values := make(map[string]*string, len(school.FieldKeys))
	for _, k := range school.FieldKeys {
		values[k] = fs.String(k, "", k)
	}
	image := fs.String("image", "", "path to a jpeg, png or webp image")
	return values, image
}

// applyFlags copies the explicitly set field flags into the form.
func applyFlags(fs *flag.FlagSet, form *views.FormView, values map[string]*string, image string) error {
	var setErr error
	fs.Visit(func(f *flag.Flag) {
		if v, ok := values[f.Name]; ok && setErr == nil {
			setErr = form.Set(f.Name, *v)
		}
	})
	if setErr != nil {
		return setErr
	}
	if image != "" {
		if err := form.SelectImage(image); err != nil {
			return fmt.Errorf("image %s: %w", image, err)
		}
	}
	return nil
}

func submit(ctx context.Context, form *views.FormView, out io.Writer) (*school.School, error) {
	saved, err := form.Submit(ctx)
	if err != nil {
		_ = form.Render(out)
		return nil, err
	}
	return saved, nil
}

func runAdd(ctx context.Context, store *client.Store, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	values, image := fieldFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	form := views.NewAddForm(store)
	if err := applyFlags(fs, form, values, *image); err != nil {
		return err
	}
	if p := form.Preview; p != nil {
		fmt.Fprintf(out, "Uploading %s (%s, %d bytes)\n", p.Name, p.ContentType, p.Size)
	}

	saved, err := submit(ctx, form, out)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "School added: %s (%s)\n", saved.Name, saved.ID)
	return nil
}

func runEdit(ctx context.Context, api *client.Client, store *client.Store, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	id := fs.String("id", "", "school id")
	values, image := fieldFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return errors.New("edit: -id is required")
	}

	view := views.NewListView(store, api.ImageURL, nil)
	if err := view.Mount(ctx); err != nil {
		return err
	}
	form, err := view.Edit(*id)
	if err != nil {
		return fmt.Errorf("edit %s: %w", *id, err)
	}
	if err := applyFlags(fs, form, values, *image); err != nil {
		return err
	}

	saved, err := submit(ctx, form, out)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "School updated: %s (%s)\n", saved.Name, saved.ID)
	return nil
}

type stdinConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

func (c stdinConfirmer) Confirm(prompt string) bool {
	fmt.Fprintf(c.out, "%s [y/N] ", prompt)
	line, _ := c.in.ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func runDelete(ctx context.Context, api *client.Client, store *client.Store, args []string, in io.Reader, out io.Writer) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	id := fs.String("id", "", "school id")
	yes := fs.Bool("y", false, "do not ask for confirmation")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return errors.New("delete: -id is required")
	}

	var confirm views.Confirmer = stdinConfirmer{in: bufio.NewReader(in), out: out}
	if *yes {
		confirm = views.ConfirmFunc(func(string) bool { return true })
	}

	view := views.NewListView(store, api.ImageURL, confirm)
	if err := view.Mount(ctx); err != nil {
		return err
	}
	dispatched, err := view.Delete(ctx, *id)
	if err != nil {
		return fmt.Errorf("delete %s: %s", *id, store.State().Error)
	}
	if !dispatched {
		fmt.Fprintln(out, "Cancelled.")
		return nil
	}
	fmt.Fprintf(out, "School deleted: %s\n", *id)
	return nil
}

func runWatch(ctx context.Context, api *client.Client, out io.Writer) error {
	fmt.Fprintf(out, "Watching %s for changes (Ctrl+C to stop)\n", api.BaseURL())
	return api.Watch(ctx, func(e school.Event) {
		name := ""
		if e.School != nil {
			name = e.School.Name
		}
		fmt.Fprintf(out, "%-15s %s %s\n", e.Type, e.ID, name)
	})
}
