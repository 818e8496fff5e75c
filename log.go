package sqlitefile

import log "github.com/sirupsen/logrus"

// Log is the package-level logger used by the pager and schema catalog
// for observational logging. It never gates control flow: an error is
// always returned to the caller regardless of what is logged here.
var Log = log.New()

func init() {
	Log.SetLevel(log.WarnLevel)
}
