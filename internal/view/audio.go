package view

import (
	"os/exec"

	"lumen/internal/config"
	"lumen/internal/log"
	"lumen/pkg/types"
)

// audioState tracks the external audio player process for sidecar notes.
// Only one note plays at a time.
type audioState struct {
	playerID types.ImageID
	cmd      *exec.Cmd
	// closing defuse stops the exit watcher from touching playerID, so a
	// deliberate stop never races the natural process exit.
	defuse chan struct{}
}

func newAudioState() audioState {
	return audioState{playerID: types.NoImage}
}

// AudioPlayerID returns the image whose note is playing, or NoImage.
func (m *Manager) AudioPlayerID() types.ImageID { return m.audio.playerID }

func (m *Manager) post(fn func()) {
	if m.Post != nil {
		m.Post(fn)
		return
	}
	fn()
}

// AudioStart plays the sidecar audio note of an image through the
// configured external player. A note already playing is stopped first.
func (m *Manager) AudioStart(id types.ImageID) {
	m.AudioStop()

	if m.Conf == nil || m.AudioPath == nil {
		return
	}
	player := m.Conf.GetString(config.KeyAudioPlayer)
	if player == "" {
		return
	}
	filename, ok := m.AudioPath(id)
	if !ok {
		return
	}

	cmd := exec.Command(player, filename)
	setProcessGroup(cmd)
	if err := cmd.Start(); err != nil {
		log.Errorf("could not start audio player %s: %v", player, err)
		m.audio.playerID = types.NoImage
		return
	}

	m.audio.playerID = id
	m.audio.cmd = cmd
	defuse := make(chan struct{})
	m.audio.defuse = defuse

	go func() {
		cmd.Wait()
		m.post(func() {
			select {
			case <-defuse:
				return
			default:
			}
			m.audio.playerID = types.NoImage
		})
	}()
}

// AudioStop kills the running audio player, if any. The exit watcher is
// defused first so the kill cannot race a concurrent natural exit.
func (m *Manager) AudioStop() {
	if m.audio.playerID == types.NoImage {
		return
	}
	close(m.audio.defuse)
	killPlayer(m.audio.cmd)
	m.audio.cmd = nil
	m.audio.playerID = types.NoImage
}
