package inventory

import (
	"nursery-backend/internal/apperr"
	"nursery-backend/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

// POST /api/inventory/import — multipart upload of an .xlsx stock sheet.
func ImportBatchesHandler(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return apperr.New(apperr.KindValidation, "an xlsx file upload named 'file' is required")
		}

		file, err := fileHeader.Open()
		if err != nil {
			return apperr.New(apperr.KindValidation, "the uploaded file could not be opened")
		}
		defer file.Close()

		excelFile, err := excelize.OpenReader(file)
		if err != nil {
			return apperr.New(apperr.KindValidation, "the uploaded file is not a readable xlsx workbook")
		}
		defer excelFile.Close()

		sheets := excelFile.GetSheetList()
		if len(sheets) == 0 {
			return apperr.New(apperr.KindValidation, "the workbook has no sheets")
		}
		rows, err := excelFile.GetRows(sheets[0])
		if err != nil {
			return apperr.New(apperr.KindValidation, "the first sheet could not be read")
		}

		res, err := ImportRows(st, rows)
		if err != nil {
			return err
		}

		logrus.WithFields(logrus.Fields{
			"file":     fileHeader.Filename,
			"imported": res.Imported,
			"failed":   res.Failed,
		}).Info("inventory import finished")

		return c.JSON(res)
	}
}
