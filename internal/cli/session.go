package cli

import (
	"github.com/aretw0/convoy/pkg/config"
	"github.com/aretw0/convoy/pkg/session"
)

// BuildSessionManager wires only the session store, for the session
// maintenance commands. It never touches the oracle, so it works without
// credentials.
func BuildSessionManager(opts RunOptions) (*session.Manager, error) {
	logger := createLogger(opts.Debug)

	var cfg *config.Config
	if opts.AgencyPath != "" {
		loaded, err := config.Load(opts.AgencyPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	return buildSessions(opts, cfg, logger)
}
