package automation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/launcher"
)

// DownloadReportBackup logs into the purchasing portal and downloads
// the quotation report export. Returns the saved file path, or
// "NO_DATA" when the portal reports an empty export.
func DownloadReportBackup(userID, password, saveDir string) (string, error) {
	if _, err := os.Stat(saveDir); os.IsNotExist(err) {
		if err := os.MkdirAll(saveDir, 0755); err != nil {
			return "", fmt.Errorf("failed to create save folder: %v", err)
		}
	}

	// Leakless(false) keeps antivirus software from killing the helper
	u := launcher.New().
		Headless(false).
		Leakless(false).
		MustLaunch()

	browser := rod.New().ControlURL(u).MustConnect()
	defer browser.MustClose()

	fmt.Println("Opening portal login page...")
	page := browser.MustPage("https://accounts.zoho.com/signin")
	page.MustWaitStable()

	fmt.Println("Entering credentials...")

	if err := rod.Try(func() {
		page.MustElement("[name='LOGIN_ID'], [name='login_id']").MustInput(userID)
		page.KeyActions().Press(input.Enter).MustDo()
		page.MustWaitStable()
	}); err != nil {
		return "", fmt.Errorf("login id field not found: %v", err)
	}

	if err := rod.Try(func() {
		page.MustElement("[name='PASSWORD'], [name='password']").MustInput(password)
	}); err != nil {
		return "", fmt.Errorf("password field not found: %v", err)
	}

	fmt.Println("Clicking sign-in button...")
	loginBtn, err := page.ElementR("button, input, a", "Sign in|Entrar")
	if err == nil {
		loginBtn.MustClick()
	} else {
		page.KeyActions().Press(input.Enter).MustDo()
	}

	page.MustWaitStable()

	fmt.Println("Opening the quotation report...")
	if err := rod.Try(func() {
		page.MustElementR("a, span, div", "Todas as Cotações|Todas_Cotacoes").MustClick()
	}); err != nil {
		return "", fmt.Errorf("quotation report link not found (login may have failed): %v", err)
	}
	page.MustWaitStable()

	wait := browser.MustWaitDownload()

	go page.MustHandleDialog()

	fmt.Println("Clicking export button...")
	clicked := false
	selectors := []string{
		"a[href*='export']",
		"button",
		"input[type='button']",
	}

	for _, sel := range selectors {
		if el, err := page.ElementR(sel, "Exportar|Export"); err == nil {
			el.MustClick()
			clicked = true
			break
		}
	}

	if !clicked {
		return "", fmt.Errorf("export button not found on the report page")
	}

	fmt.Println("Waiting for the download...")

	var fileData []byte
	resultChan := make(chan string)

	go func() {
		defer func() {
			_ = recover()
		}()
		data := wait()
		fileData = data
		resultChan <- "downloaded"
	}()

	go func() {
		for i := 0; i < 60; i++ {
			time.Sleep(500 * time.Millisecond)

			if body, err := page.Element("body"); err == nil {
				text, _ := body.Text()

				if strings.Contains(text, "Nenhum registro") {
					resultChan <- "no_data"
					return
				}
			}
		}
	}()

	select {
	case res := <-resultChan:
		if res == "no_data" {
			return "NO_DATA", nil
		}

	case <-time.After(60 * time.Second):
		return "", fmt.Errorf("timed out waiting for the download or a portal message")
	}

	if len(fileData) == 0 {
		return "", fmt.Errorf("downloaded file is empty")
	}

	fileName := fmt.Sprintf("COTACOES_%s.csv", time.Now().Format("20060102150405"))
	destPath := filepath.Join(saveDir, fileName)

	if err := os.WriteFile(destPath, fileData, 0644); err != nil {
		return "", fmt.Errorf("failed to write downloaded file: %v", err)
	}

	fmt.Printf("Download complete: %s\n", destPath)
	return destPath, nil
}
