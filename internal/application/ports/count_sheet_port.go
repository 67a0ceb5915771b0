package ports

import (
	"context"

	"github.com/jhoicas/myshop-api/internal/domain/entity"
)

// CountSheetGenerator define el puerto de salida para la hoja imprimible de un conteo físico.
// La aplicación solo conoce este contrato; el adaptador concreto (Maroto) vive en infraestructura.
type CountSheetGenerator interface {
	// GenerateCountSheetPDF devuelve los bytes del PDF con las líneas del conteo.
	GenerateCountSheetPDF(ctx context.Context, count *entity.InventoryCount) ([]byte, error)
}
