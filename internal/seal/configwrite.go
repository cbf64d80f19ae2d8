package seal

import (
	"toolbay/internal/config"
)

// writeSealedConfig emits the forced-offline project config. Both offline
// flags are set unconditionally; repeat runs produce byte-identical output.
func (s Sealer) writeSealedConfig(cfg config.Config) error {
	sealed := cfg
	sealed.Network.OfflineMode = true
	sealed.Network.ForceOffline = true
	// A sealed project hydrates from its embedded tools, never a mirror.
	sealed.Mirror = config.MirrorSection{}

	return config.Save(s.Paths.SealedFile, sealed)
}
