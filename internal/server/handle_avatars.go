package server

import (
	"math/rand"
	"net/http"
	"os"
	"path"
	"strconv"
	"strings"
)

// playerSlugs maps roster IDs to avatar directory names.
var playerSlugs = map[string]string{
	"A": "albert",
	"Y": "yiming",
	"D": "darwin",
	"C": "curtis",
}

var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
}

type AvatarResponse struct {
	URL string `json:"url"`
}

// handleRandomAvatar picks a random avatar image for a player. rank=1
// prefers the winner shots under <player>/1st/ when any exist.
func handleRandomAvatar(avatarsDir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID := strings.ToUpper(r.URL.Query().Get("playerId"))
		slug, ok := playerSlugs[playerID]
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid playerId")
			return
		}

		rank, _ := strconv.Atoi(r.URL.Query().Get("rank"))

		var chosen string
		if rank == 1 {
			if pick := pickImage(path.Join(avatarsDir, slug, "1st")); pick != "" {
				chosen = path.Join("/avatars", slug, "1st", pick)
			}
		}
		if chosen == "" {
			if pick := pickImage(path.Join(avatarsDir, slug)); pick != "" {
				chosen = path.Join("/avatars", slug, pick)
			}
		}
		if chosen == "" {
			writeError(w, http.StatusNotFound, "no images found")
			return
		}

		w.Header().Set("Cache-Control", "no-store, max-age=0")
		writeJSON(w, http.StatusOK, AvatarResponse{URL: chosen})
	}
}

// pickImage returns a random image file name from dir, or "" when the
// directory is missing or holds no images.
func pickImage(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	var images []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if imageExts[strings.ToLower(path.Ext(entry.Name()))] {
			images = append(images, entry.Name())
		}
	}
	if len(images) == 0 {
		return ""
	}
	return images[rand.Intn(len(images))]
}
