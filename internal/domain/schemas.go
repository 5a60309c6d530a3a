package domain

import (
	"fmt"
	"sort"
)

// Tabelas de fatos conhecidas. Cada uma tem a sua chave única declarada e
// as colunas de métrica que a importação pode preencher.
var (
	SalesSchema = FactSchema{
		Name:          "sales",
		Table:         "sales",
		DateColumn:    ColumnDateOfMonthBegin,
		SegmentColumn: ColumnSegment,
		Metrics: []MetricColumn{
			{Column: "total_gs", Selectors: []string{"gs"}},
			{Column: "total_ewc", Selectors: []string{"ewc"}},
			{Column: "total_gm", Selectors: []string{"gm"}},
		},
	}

	OrdersSchema = FactSchema{
		Name:       "orders",
		Table:      "orders",
		DateColumn: "order_date",
		Metrics: []MetricColumn{
			{Column: "production_time", Selectors: []string{"production"}, Integer: true},
			{Column: "enroute_time", Selectors: []string{"enroute"}, Integer: true},
			{Column: "order_cost", Selectors: []string{"cost"}},
		},
	}

	LogisticsSchema = FactSchema{
		Name:       "logistics",
		Table:      "logistics",
		DateColumn: ColumnDateOfMonthBegin,
		Metrics: []MetricColumn{
			{Column: "delivery_duty_coef", Selectors: []string{"coef", "delivery_duty"}},
		},
	}

	OrdersPaymentTermsSchema = FactSchema{
		Name:       "orders_payment_terms",
		Table:      "orders_payment_terms",
		DateColumn: ColumnDateOfMonthBegin,
		Metrics: []MetricColumn{
			{Column: "order_placement_date_payment_prc", Selectors: []string{"placement", "prepayment"}},
			{Column: "order_shipment_date_payment_prc", Selectors: []string{"shipment"}},
		},
	}

	PaymentsSchema = FactSchema{
		Name:       "payments",
		Table:      "payments",
		DateColumn: ColumnDateOfMonthBegin,
		Metrics: []MetricColumn{
			{Column: "order_payment_total", Selectors: []string{"order_payment"}},
			{Column: "delivery_duty_payment_total", Selectors: []string{"delivery_duty_payment"}},
		},
	}

	StockBudgetSchema = FactSchema{
		Name:       "stock_budget",
		Table:      "stock_budget",
		DateColumn: ColumnDateOfMonthBegin,
		Metrics: []MetricColumn{
			{Column: "oh_ewc_begin", Selectors: []string{"begin"}},
			{Column: "oh_ewc_incoming", Selectors: []string{"incoming"}},
			{Column: "oh_ewc_outgoing", Selectors: []string{"outgoing"}},
			{Column: "oh_ewc_end", Selectors: []string{"end"}},
		},
	}
)

var factSchemas = map[string]FactSchema{
	SalesSchema.Name:              SalesSchema,
	OrdersSchema.Name:             OrdersSchema,
	LogisticsSchema.Name:          LogisticsSchema,
	OrdersPaymentTermsSchema.Name: OrdersPaymentTermsSchema,
	PaymentsSchema.Name:           PaymentsSchema,
	StockBudgetSchema.Name:        StockBudgetSchema,
}

// SchemaByName busca um schema de fatos pelo nome da tabela
func SchemaByName(name string) (FactSchema, error) {
	schema, ok := factSchemas[name]
	if !ok {
		return FactSchema{}, fmt.Errorf("unknown fact table %q", name)
	}
	return schema, nil
}

// FactSchemas retorna todos os schemas ordenados por nome
func FactSchemas() []FactSchema {
	out := make([]FactSchema, 0, len(factSchemas))
	for _, s := range factSchemas {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
