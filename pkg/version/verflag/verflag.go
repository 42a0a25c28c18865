package verflag

import (
	"fmt"
	"os"
	"strconv"

	flag "github.com/spf13/pflag"

	"dass/pkg/version"
)

type versionValue int

const (
	versionFalse versionValue = 0
	versionTrue  versionValue = 1
	versionRaw   versionValue = 2
)

const strRawVersion = "raw"

func (v *versionValue) IsBoolFlag() bool {
	return true
}

func (v *versionValue) Get() interface{} {
	return versionValue(*v)
}

func (v *versionValue) Set(s string) error {
	if s == strRawVersion {
		*v = versionRaw
		return nil
	}
	boolVal, err := strconv.ParseBool(s)
	if boolVal {
		*v = versionTrue
	} else {
		*v = versionFalse
	}
	return err
}

func (v *versionValue) String() string {
	if *v == versionRaw {
		return strRawVersion
	}
	return fmt.Sprintf("%v", bool(*v == versionTrue))
}

func (v *versionValue) Type() string {
	return "version"
}

const versionFlagName = "version"

var versionFlag = newVersionFlag(versionFlagName, versionFalse, "Print version information and quit, --version=raw prints the raw build info")

func newVersionFlag(name string, value versionValue, usage string) *versionValue {
	p := new(versionValue)
	*p = value
	flag.Var(p, name, usage)
	// "--version" is treated as "--version=true"
	flag.Lookup(name).NoOptDefVal = "true"
	return p
}

// AddFlags registers the version flag on the given flag set.
func AddFlags(fs *flag.FlagSet) {
	fs.AddFlag(flag.Lookup(versionFlagName))
}

// PrintAndExitIfRequested checks the --version flag and, if set, prints
// the version and exits.
func PrintAndExitIfRequested() {
	if *versionFlag == versionRaw {
		fmt.Printf("%#v\n", version.Get())
		os.Exit(0)
	} else if *versionFlag == versionTrue {
		fmt.Printf("dass %s\n", version.Get())
		os.Exit(0)
	}
}
