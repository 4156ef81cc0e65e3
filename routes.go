package main

import (
	"net/http"

	"github.com/jmoiron/sqlx"

	"pdc/automation"
	"pdc/creator"
	"pdc/quotation"
	"pdc/save"
)

func SetupRoutes(mux *http.ServeMux, dbConn *sqlx.DB, api *creator.Client) {
	saver := save.NewSaver(api)

	mux.HandleFunc("/api/quotation/new", quotation.NewQuotationHandler(dbConn))
	mux.HandleFunc("/api/quotation/state", quotation.StateHandler())
	mux.HandleFunc("/api/quotation/close", quotation.CloseHandler())

	mux.HandleFunc("/api/quotation/product/add", quotation.ProductAddHandler())
	mux.HandleFunc("/api/quotation/product/remove", quotation.ProductRemoveHandler())
	mux.HandleFunc("/api/quotation/supplier/add", quotation.SupplierAddHandler(dbConn))
	mux.HandleFunc("/api/quotation/supplier/remove", quotation.SupplierRemoveHandler())
	mux.HandleFunc("/api/quotation/supplier/detail", quotation.SupplierDetailHandler())
	mux.HandleFunc("/api/quotation/approve", quotation.ApproveHandler())
	mux.HandleFunc("/api/quotation/cell", quotation.CellHandler())
	mux.HandleFunc("/api/quotation/paste", quotation.PasteHandler())

	mux.HandleFunc("/api/quotation/installment/add", quotation.InstallmentAddHandler())
	mux.HandleFunc("/api/quotation/installment/remove", quotation.InstallmentRemoveHandler())
	mux.HandleFunc("/api/quotation/installment/set", quotation.InstallmentSetHandler())
	mux.HandleFunc("/api/quotation/classification/add", quotation.ClassificationAddHandler())
	mux.HandleFunc("/api/quotation/classification/remove", quotation.ClassificationRemoveHandler())
	mux.HandleFunc("/api/quotation/classification/set", quotation.ClassificationSetHandler())

	mux.HandleFunc("/api/quotation/draft/save", quotation.DraftSaveHandler(dbConn))
	mux.HandleFunc("/api/quotation/draft/load", quotation.DraftLoadHandler(dbConn))
	mux.HandleFunc("/api/quotation/draft/list", quotation.DraftListHandler(dbConn))
	mux.HandleFunc("/api/quotation/draft/delete", quotation.DraftDeleteHandler(dbConn))

	mux.HandleFunc("/api/quotation/save", quotation.SaveHandler(dbConn, saver))
	mux.HandleFunc("/api/quotation/load", quotation.LoadQuotationHandler(api))

	mux.HandleFunc("/api/quotation/export/csv", quotation.ExportCSVHandler())
	mux.HandleFunc("/api/quotation/export/xlsx", quotation.ExportXLSXHandler())

	mux.HandleFunc("/api/suppliers/list", ListSuppliersHandler(dbConn))
	mux.HandleFunc("/api/suppliers/create", CreateSupplierHandler(dbConn))
	mux.HandleFunc("/api/suppliers/delete/", DeleteSupplierHandler(dbConn))
	mux.HandleFunc("/api/suppliers/import", ImportSuppliersHandler(dbConn))

	mux.HandleFunc("/api/config", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			GetConfigHandler()(w, r)
		case http.MethodPost:
			SaveConfigHandler()(w, r)
		default:
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		}
	})

	mux.HandleFunc("/api/automation/backup/download", automation.DownloadBackupHandler())
}
