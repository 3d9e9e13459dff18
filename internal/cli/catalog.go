package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/rdrscript"
	"github.com/aretw0/rdrscript/internal/presentation/tui"
)

// SourceOptions selects where samples are read from.
type SourceOptions struct {
	Dir     string
	Library string
}

func (o SourceOptions) client() (*rdrscript.Client, error) {
	var opts []rdrscript.Option
	if o.Library != "" {
		opts = append(opts, rdrscript.WithLibrary(o.Library))
	}
	dir := o.Dir
	if dir == "" && o.Library == "" {
		dir = "."
	}
	return rdrscript.New(dir, opts...)
}

// Validate loads a sample and checks it without connecting to a renderer.
func Validate(ctx context.Context, src SourceOptions, name string, out io.Writer) error {
	client, err := src.client()
	if err != nil {
		return err
	}
	script, err := client.Load(ctx, name)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Sample '%s' is valid: %d windows, %d initial operations, %d named operations, %d event subscriptions.\n",
		script.Name, script.NrWindows, len(script.InitialOps), len(script.NamedOps), len(script.Events))
	return nil
}

// List prints the names of all samples, one per line.
func List(ctx context.Context, src SourceOptions, out io.Writer) error {
	client, err := src.client()
	if err != nil {
		return err
	}
	names, err := client.Loader().ListSamples(ctx)
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Fprintln(out, name)
	}
	return nil
}

// Describe renders a markdown summary of a sample.
func Describe(ctx context.Context, src SourceOptions, name string, out io.Writer) error {
	client, err := src.client()
	if err != nil {
		return err
	}
	doc, err := client.Loader().GetSample(ctx, name)
	if err != nil {
		return err
	}
	script, err := client.Load(ctx, name)
	if err != nil {
		return err
	}

	f, isFile := out.(*os.File)
	render := tui.NewRenderer(!isFile || !tui.IsTerminal(f))
	text, err := render(tui.Describe(script, doc.Notes))
	if err != nil {
		return fmt.Errorf("failed to render summary: %w", err)
	}
	_, err = io.WriteString(out, text)
	return err
}
