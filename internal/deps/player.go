package deps

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// CheckPlayer reports the audio player annunciator will execute.
//
// A configured ffplay that is not on PATH is also looked for next to the
// real location of a symlinked ffmpeg, where static FFmpeg builds keep it.
func CheckPlayer(command string) Status {
	result := Status{
		Name:        "Audio player",
		Description: "Required for announcement preview",
	}
	cmd := strings.TrimSpace(command)
	if cmd == "" {
		result.Detail = "command not configured"
		return result
	}
	if resolved, err := exec.LookPath(cmd); err == nil {
		result.Command = resolved
		result.Available = true
		return result
	}
	if filepath.Base(cmd) == cmd && strings.TrimSuffix(cmd, ".exe") == "ffplay" {
		if ffmpeg, err := exec.LookPath(executable("ffmpeg")); err == nil {
			if real, linkErr := filepath.EvalSymlinks(ffmpeg); linkErr == nil {
				ffmpeg = real
			}
			candidate := filepath.Join(filepath.Dir(ffmpeg), executable("ffplay"))
			if info, statErr := os.Stat(candidate); statErr == nil && isExecutable(info) {
				result.Command = candidate
				result.Available = true
				return result
			}
		}
	}
	result.Command = cmd
	result.Detail = fmt.Sprintf("binary %q not found", cmd)
	return result
}

// CheckOpener reports the external application used to show sign-language
// videos. It is optional because video generation works without it.
func CheckOpener(command string) Status {
	statuses := CheckBinaries([]Requirement{{
		Name:        "Video opener",
		Command:     command,
		Description: "Opens sign-language videos",
		Optional:    true,
	}})
	return statuses[0]
}

func executable(name string) string {
	if runtime.GOOS == "windows" {
		return name + ".exe"
	}
	return name
}

func isExecutable(info os.FileInfo) bool {
	if info == nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
