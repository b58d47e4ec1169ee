package version

import "fmt"

const Name = "seedvdi"

const VERSION_MAJOR = 0
const VERSION_MINOR = 4
const VERSION_MICRO = 0

// Commit is stamped at build time:
//
//	go build -ldflags "-X SeedWithWarehouse/internal/version.Commit=$(git rev-parse --short HEAD)"
var Commit string

var version *Version

type Version struct {
	Major  int
	Minor  int
	Micro  int
	Commit string
}

func (v *Version) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Micro)
	if v.Commit != "" {
		s += "+" + v.Commit
	}
	return s
}

// UserAgent identifies outbound requests to SEED.
func (v *Version) UserAgent() string {
	return fmt.Sprintf("%s/%s", Name, v.String())
}

func GetVersion() *Version {
	return version
}

func init() {
	version = &Version{
		Major:  VERSION_MAJOR,
		Minor:  VERSION_MINOR,
		Micro:  VERSION_MICRO,
		Commit: Commit,
	}
}
