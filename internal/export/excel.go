package export

import (
	"bytes"
	"fmt"

	"shareit/internal/models"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Бронирования"

var headers = []string{"ID", "Вещь", "Арендатор", "Статус", "Начало", "Конец", "Создано"}

// BookingsToExcel рендерит список бронирований в xlsx для выгрузки владельцу.
func BookingsToExcel(bookings []*models.Booking) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, h)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	lastHeader, _ := excelize.CoordinatesToCellName(len(headers), 1)
	_ = f.SetCellStyle(sheetName, "A1", lastHeader, headerStyle)

	for i, b := range bookings {
		row := i + 2
		values := []interface{}{
			b.ID,
			b.ItemName,
			b.BookerID,
			b.Status,
			b.Start.Format("02.01.2006 15:04"),
			b.End.Format("02.01.2006 15:04"),
			b.CreatedAt.Format("02.01.2006 15:04"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(sheetName, cell, v)
		}
	}

	_ = f.SetColWidth(sheetName, "A", "A", 8)
	_ = f.SetColWidth(sheetName, "B", "C", 25)
	_ = f.SetColWidth(sheetName, "D", "G", 18)

	// Удаляем стандартный лист
	_ = f.DeleteSheet("Sheet1")

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("error writing file: %v", err)
	}
	return buf.Bytes(), nil
}
