package finder

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/djherbis/times"
)

// FileDetails is the metadata record produced for each matched file. It is
// created exactly once per match and never mutated afterwards.
type FileDetails struct {
	Path        string    `json:"file_path"`
	RealPath    string    `json:"file_real_path"`
	Name        string    `json:"file_name"`
	Extension   string    `json:"file_extension"`
	Size        int64     `json:"file_size"`
	Access      string    `json:"file_access"`
	Modified    time.Time `json:"file_modified"`
	Created     time.Time `json:"file_created"`
	Owner       uint32    `json:"file_owner"`
	Group       uint32    `json:"file_group"`
	Permissions string    `json:"file_permissions"`
}

// GetFileDetails stats the candidate and assembles its FileDetails record.
// Failures here (permission loss, the file vanishing between discovery and
// stat) are reported to the caller, which records them as errors-found and
// moves on.
func GetFileDetails(path string) (FileDetails, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileDetails{}, fmt.Errorf("stat %s: %w", path, err)
	}

	// The real path is resolved separately from the path as given so
	// symlinked candidates report both.
	realPath, err := filepath.EvalSymlinks(path)
	if err != nil {
		realPath = path
	}

	det := FileDetails{
		Path:        path,
		RealPath:    realPath,
		Name:        filepath.Base(path),
		Extension:   filepath.Ext(path),
		Size:        info.Size(),
		Access:      accessSummary(path),
		Modified:    info.ModTime(),
		Permissions: fmt.Sprintf("%04o", info.Mode().Perm()),
	}

	// Birth time where the filesystem records one, change time otherwise.
	ts := times.Get(info)
	switch {
	case ts.HasBirthTime():
		det.Created = ts.BirthTime()
	case ts.HasChangeTime():
		det.Created = ts.ChangeTime()
	default:
		det.Created = info.ModTime()
	}

	det.Owner, det.Group = fileOwnership(info)
	return det, nil
}
