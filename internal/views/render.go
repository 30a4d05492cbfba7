package views

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
)

// Render prints the status banner and the visible cards as a table.
func (v *ListView) Render(w io.Writer) error {
	st := v.store.State()
	if st.Loading {
		fmt.Fprintln(w, "Loading schools...")
	}
	if st.Error != "" {
		fmt.Fprintf(w, "Error: %s\n", st.Error)
	}

	cards := v.Cards()
	if len(cards) == 0 {
		if !st.Loading && st.Error == "" {
			_, err := fmt.Fprintln(w, "No schools found.")
			return err
		}
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tADDRESS\tCITY\tIMAGE")
	for _, c := range cards {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", c.ID, c.Title, c.Address, c.City, c.ImageURL)
	}
	return tw.Flush()
}

// Render prints the field errors, the image preview and the submit error.
func (f *FormView) Render(w io.Writer) error {
	keys := make([]string, 0, len(f.Errors))
	for k := range f.Errors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "  %s: %s\n", k, f.Errors[k])
	}

	if p := f.Preview; p != nil {
		fmt.Fprintf(w, "Image: %s (%s, %d bytes)\n", p.Name, p.ContentType, p.Size)
	}
	if f.SubmitError != "" {
		_, err := fmt.Fprintf(w, "Error: %s\n", f.SubmitError)
		return err
	}
	return nil
}
