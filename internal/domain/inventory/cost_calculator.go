package inventory

import "github.com/shopspring/decimal"

// CostScale decimales con los que se conserva el costo promedio (NUMERIC(18,4) en la base).
const CostScale = 4

// QtyScale decimales con los que se persisten las cantidades (NUMERIC(18,4) en la base).
const QtyScale = 4

// WeightedAverage implementa la lógica de costo promedio ponderado (servicio de dominio).
// Si no había existencia el nuevo costo es el de la entrada; si no:
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
func WeightedAverage(stockActual, costoActual, cantEntrada, costoEntrada decimal.Decimal) decimal.Decimal {
	if stockActual.IsZero() {
		return costoEntrada.Round(CostScale)
	}
	sum := stockActual.Add(cantEntrada)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := stockActual.Mul(costoActual).Add(cantEntrada.Mul(costoEntrada))
	return num.Div(sum).Round(CostScale)
}
