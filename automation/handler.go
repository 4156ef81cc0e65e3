package automation

import (
	"encoding/json"
	"log"
	"net/http"
	"os"

	"pdc/config"
)

func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}

// DownloadBackupHandler runs the portal export and reports where the
// backup landed.
func DownloadBackupHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeJSONError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}

		cfg, err := config.LoadConfig()
		if err != nil {
			writeJSONError(w, "failed to load settings: "+err.Error(), http.StatusInternalServerError)
			return
		}

		if cfg.PortalUserID == "" || cfg.PortalPassword == "" {
			writeJSONError(w, "portal user id or password is not configured", http.StatusBadRequest)
			return
		}

		saveDir := cfg.BackupFolderPath
		if saveDir == "" {
			saveDir = os.TempDir()
			log.Printf("No backup folder configured, using temp folder: %s", saveDir)
		}

		log.Println("Starting portal backup automation...")
		filePath, err := DownloadReportBackup(cfg.PortalUserID, cfg.PortalPassword, saveDir)

		if err != nil {
			log.Printf("Automation Error: %v", err)
			writeJSONError(w, "backup download failed: "+err.Error(), http.StatusInternalServerError)
			return
		}

		if filePath == "NO_DATA" {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{
				"status":  "no_data",
				"message": "the report has no records to export",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"status": "ok",
			"file":   filePath,
		})
	}
}
