// Package avatar inspects the trained avatars inside a LiveTalking
// installation.
package avatar

import (
	"path/filepath"
	"strings"

	"github.com/vk/livelaunch/internal/fsutil"
)

// Prefix marks a wav2lip avatar directory.
const Prefix = "wav2lip256_"

// Layout resolves the well-known LiveTalking directories.
type Layout struct {
	Root string
}

// AvatarsDir holds trained avatars ready to run.
func (l Layout) AvatarsDir() string { return filepath.Join(l.Root, "data", "avatars") }

// WavDir holds each avatar's reference audio.
func (l Layout) WavDir() string { return filepath.Join(l.Root, "wav") }

// ResultsDir receives freshly trained avatars.
func (l Layout) ResultsDir() string { return filepath.Join(l.Root, "wav2lip", "results", "avatars") }

// AppScript is the LiveTalking entry point.
func (l Layout) AppScript() string { return filepath.Join(l.Root, "app.py") }

// GenAvatarScript is the avatar training script.
func (l Layout) GenAvatarScript() string { return filepath.Join(l.Root, "wav2lip", "genavatar.py") }

// Avatar is a trained avatar found on disk.
type Avatar struct {
	ID       string
	Name     string
	Path     string
	HasAudio bool
}

// Scan lists the avatars in the layout's avatars directory.
func Scan(l Layout) ([]Avatar, error) {
	ids, err := fsutil.ListDirsWithPrefix(l.AvatarsDir(), Prefix)
	if err != nil {
		return nil, err
	}

	avatars := make([]Avatar, 0, len(ids))
	for _, id := range ids {
		avatars = append(avatars, Avatar{
			ID:       id,
			Name:     strings.TrimPrefix(id, Prefix),
			Path:     filepath.Join(l.AvatarsDir(), id),
			HasAudio: fsutil.Exists(filepath.Join(l.WavDir(), id+".wav")),
		})
	}
	return avatars, nil
}
