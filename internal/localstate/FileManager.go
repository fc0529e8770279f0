package localstate

import (
	"fmt"
	"os"
	"path/filepath"
	"processingd/internal/localstate/interfaces"
	"processingd/internal/models"
	"processingd/internal/providers"
	"processingd/internal/stores"

	json "github.com/goccy/go-json"
)

// FileManager reads and writes the operator-local slice of state: groups,
// search keywords, processing settings and preferences. Donations, bids and
// runs are never written; the tracker owns them.
type FileManager struct {
	groups      stores.DonationGroupsStoreInterface
	keywords    stores.SearchKeywordsStoreInterface
	processing  stores.ProcessingStoreInterface
	preferences stores.UserPreferencesStoreInterface
	compressor  interfaces.CompressorInterface
	logger      providers.Logger
}

func NewFileManager(
	compressor interfaces.CompressorInterface,
	groups stores.DonationGroupsStoreInterface,
	keywords stores.SearchKeywordsStoreInterface,
	processing stores.ProcessingStoreInterface,
	preferences stores.UserPreferencesStoreInterface,
	logger providers.Logger,
) *FileManager {
	return &FileManager{
		groups:      groups,
		keywords:    keywords,
		processing:  processing,
		preferences: preferences,
		compressor:  compressor,
		logger:      logger,
	}
}

func (f *FileManager) Snapshot() *models.LocalState {
	settings := f.processing.Settings()
	prefs := f.preferences.Preferences()
	return &models.LocalState{
		Version:     models.LocalStateVersion,
		Groups:      f.groups.Groups(),
		Keywords:    f.keywords.Keywords(),
		Processing:  &settings,
		Preferences: &prefs,
	}
}

// Apply merges a loaded slice into the live stores. Persisted groups win
// over live ones with the same id; live keywords are kept.
func (f *FileManager) Apply(state *models.LocalState) {
	if state == nil {
		return
	}
	if state.Version > models.LocalStateVersion {
		f.logger.Warnf(providers.TypeApp, "Local state version %d is newer than %d, loading known fields only", state.Version, models.LocalStateVersion)
	}
	f.groups.Merge(state.Groups)
	if len(state.Keywords) > 0 {
		f.keywords.SetKeywords(append(f.keywords.Keywords(), state.Keywords...))
	}
	f.processing.RestoreSettings(state.Processing)
	if state.Preferences != nil {
		f.preferences.SetPreferences(*state.Preferences)
	}
}

func (f *FileManager) SaveToFile(fileName string) error {
	jsonData, err := json.Marshal(f.Snapshot())
	if err != nil {
		return err
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(fileName); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, fileName)
}

// LoadFromFile applies the slice stored at fileName. A missing file is not
// an error: the console starts with defaults.
func (f *FileManager) LoadFromFile(fileName string) error {
	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	decompressedData, err := f.compressor.Decompress(data)
	if err != nil {
		return fmt.Errorf("decompress %s: %w", fileName, err)
	}

	var state models.LocalState
	if err := json.Unmarshal(decompressedData, &state); err != nil {
		return fmt.Errorf("decode %s: %w", fileName, err)
	}
	f.Apply(&state)
	f.logger.Infof(providers.TypeApp, "Restored %d groups and %d keywords from %s", len(state.Groups), len(state.Keywords), fileName)
	return nil
}
