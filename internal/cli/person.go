package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/desk/internal/model"
)

// PersonResult reports the outcome of person set.
type PersonResult struct {
	PersonID model.PersonID `json:"person_id"`
	Applied  bool           `json:"applied"`
}

// NewPersonCommand creates the person command group.
func NewPersonCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "person",
		Short: "Manage directory people",
	}
	cmd.AddCommand(newPersonSetCommand(rootOpts))
	return cmd
}

func newPersonSetCommand(rootOpts *RootOptions) *cobra.Command {
	var name, address string

	cmd := &cobra.Command{
		Use:   "set <person-id>",
		Short: "Record a person's name and contact address",
		Long: `Create or update a person's name and contact address.

An empty --address leaves the record untouched, so contact details are
never cleared by accident.

Examples:
  desk person set 1001 --name "Ada Byron" --address ada@example.com`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPersonSet(rootOpts, args[0], name, address, cmd)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&address, "address", "", "contact address")

	return cmd
}

func runPersonSet(opts *RootOptions, rawID, name, address string, cmd *cobra.Command) error {
	out := formatter(opts, cmd)

	id, err := model.ParsePersonID(rawID)
	if err != nil {
		return out.Fail("invalid person", err)
	}

	sess, err := openSession(opts, cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	applied, err := sess.ledger.UpsertPerson(cmdContext(cmd), model.Person{ID: id, Name: name, Address: address})
	if err != nil {
		return out.Fail("update failed", err)
	}

	result := PersonResult{PersonID: id, Applied: applied}
	return out.Emit(result, func(w io.Writer) error {
		if applied {
			fmt.Fprintf(w, "Person %d updated\n", int64(id))
		} else {
			fmt.Fprintf(w, "Person %d unchanged (no address given)\n", int64(id))
		}
		return nil
	})
}
