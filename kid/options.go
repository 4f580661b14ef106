package kid

import (
	"github.com/spf13/pflag"

	"github.com/flowkit/flowkit/errs"
)

// Options is the pflag-based configuration surface every operator
// shares, extended per-operator via Flags for things like strlen's
// -g/-l thresholds or periodic's -b/-c/-t/-T/-x/-y bin parameters.
type Options struct {
	Flags *pflag.FlagSet

	TableCapacity int
	ShareLabel    string
	ValueLabels   []string
	OutputLabel   string
}

// NewOptions builds an Options with the common -M/-J/-V/-L flags
// registered, ready for an operator constructor to add its own.
func NewOptions(name string) *Options {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	o := &Options{Flags: fs}

	fs.IntVarP(&o.TableCapacity, "table-capacity", "M", 1024, "keyed state table capacity")
	fs.StringVarP(&o.ShareLabel, "share", "J", "", "share label binding this operator's table to others")
	fs.StringArrayVarP(&o.ValueLabels, "value", "V", nil, "value label (repeatable)")
	fs.StringVarP(&o.OutputLabel, "label", "L", "", "output label override")

	return o
}

// Parse parses args into o, including any operator-specific flags already
// registered on o.Flags.
func (o *Options) Parse(args []string) error {
	if err := o.Flags.Parse(args); err != nil {
		return errs.Wrap(errs.KindConfig, "parse operator flags", err)
	}
	return nil
}
