package catalog

import (
	"github.com/shopspring/decimal"

	"caja-backend/internal/models"
)

// DefaultDenominations: Kolombiya pesosu banknot ve madeni paraları.
func DefaultDenominations() []models.Denomination {
	coins := []int64{50, 100, 200, 500, 1000}
	notes := []int64{2000, 5000, 10000, 20000, 50000, 100000}

	out := make([]models.Denomination, 0, len(coins)+len(notes))
	order := 1
	for i := len(notes) - 1; i >= 0; i-- {
		out = append(out, models.Denomination{
			Value:     decimal.NewFromInt(notes[i]),
			Kind:      models.DenominationNote,
			IsActive:  true,
			SortOrder: order,
		})
		order++
	}
	for i := len(coins) - 1; i >= 0; i-- {
		out = append(out, models.Denomination{
			Value:     decimal.NewFromInt(coins[i]),
			Kind:      models.DenominationCoin,
			IsActive:  true,
			SortOrder: order,
		})
		order++
	}
	return out
}

func DefaultMovementTypes() []models.MovementType {
	mt := func(code, name string, base models.BaseClass, system bool, desc string) models.MovementType {
		return models.MovementType{Code: code, Name: name, Base: base, IsActive: true, System: system, Description: desc}
	}
	return []models.MovementType{
		// sistem
		mt(models.CodeOpening, "Apertura de caja", models.BaseInternal, true, "Monto inicial de la sesión"),
		mt(models.CodeTransfer, "Transferencia", models.BaseInternal, true, "Movimiento entre cuentas"),
		mt(models.CodeReserveDeposit, "Guardado en reserva", models.BaseInternal, true, "Efectivo trasladado a la reserva al cerrar"),

		// gelir
		mt("SALE", "Venta", models.BaseIncome, false, "Venta de mostrador"),
		mt("COLLECTION", "Cobro de factura", models.BaseIncome, false, "Cobro de cartera"),
		mt("SERVICE", "Prestación de servicio", models.BaseIncome, false, "Servicios técnicos o reparaciones"),
		mt("OTHER_INCOME", "Otro ingreso", models.BaseIncome, false, "Ingresos varios"),

		// gider
		mt("EXPENSE", "Gasto operativo", models.BaseExpense, false, "Gastos operativos varios"),
		mt("SUPPLIES", "Suministros", models.BaseExpense, false, "Papelería, limpieza, materiales"),
		mt("PAYROLL", "Pago de nómina", models.BaseExpense, false, "Sueldos y salarios"),
		mt("SUPPLIER_PAYMENT", "Pago a proveedor", models.BaseExpense, false, "Pagos a proveedores"),
		mt("CUSTOMER_REFUND", "Devolución a cliente", models.BaseExpense, false, "Reembolsos a clientes"),
		mt("TAXES", "Impuestos y tasas", models.BaseExpense, false, "IVA, retenciones"),

		// yatırım
		mt("PURCHASE", "Compra de inventario", models.BaseCapitalOutlay, false, "Productos para reventa"),
		mt("EQUIPMENT", "Compra de equipos", models.BaseCapitalOutlay, false, "Herramientas y activos"),

		// iç hareket
		mt("CHANGE", "Cambio", models.BaseInternal, false, "Cambio de billetes y monedas"),
		mt("WITHDRAWAL", "Retiro de caja", models.BaseInternal, false, "Retiro de efectivo"),
		mt("ADJUSTMENT", "Ajuste", models.BaseInternal, false, "Ajuste de caja"),
	}
}

// DefaultAccounts: bir banka, bir rezerv ve kasa hareketlerinin iz kaydı için takip hesabı.
func DefaultAccounts() []models.Account {
	return []models.Account{
		{Name: "Banco Principal", Kind: models.AccountKindBank, IsActive: true, Description: "Cuenta bancaria principal"},
		{Name: "Reserva General", Kind: models.AccountKindReserve, IsActive: true, Description: "Efectivo guardado fuera de la caja"},
		{Name: "Caja Virtual", Kind: models.AccountKindReserve, Tracking: true, IsActive: true, Description: "Seguimiento de movimientos de caja"},
	}
}
