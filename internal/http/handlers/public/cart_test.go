package public

import (
	"testing"

	"github.com/miniteen-shop/internal/constants"
	"github.com/miniteen-shop/internal/i18n"
	"github.com/miniteen-shop/internal/service"
)

func TestStockIssueMessage(t *testing.T) {
	cases := []struct {
		locale string
		issue  service.StockIssue
		want   string
	}{
		{i18n.LocaleZhTW, service.StockIssue{ProductID: "prod_gone", Reason: constants.StockIssueMissing}, "商品 prod_gone 不存在"},
		{i18n.LocaleEnUS, service.StockIssue{ProductID: "prod_gone", Reason: constants.StockIssueMissing}, "Product prod_gone no longer exists"},
		{i18n.LocaleEnUS, service.StockIssue{ProductName: "Tote", Reason: constants.StockIssueOutOfStock}, "Tote is out of stock"},
		{i18n.LocaleEnUS, service.StockIssue{ProductName: "Tote", Reason: constants.StockIssueInsufficient, Remaining: 1}, "Not enough stock for Tote, only 1 left"},
	}
	for _, tc := range cases {
		if got := stockIssueMessage(tc.locale, tc.issue); got != tc.want {
			t.Fatalf("%s %s: want %q got %q", tc.locale, tc.issue.Reason, tc.want, got)
		}
	}
}
