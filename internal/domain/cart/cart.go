// Package cart はクライアント側カート（productId→数量）と、その集計を扱う。
package cart

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Cart は商品IDごとの数量。ゼロ値は空のカート。
type Cart struct {
	items map[string]int
}

func New() *Cart {
	return &Cart{items: map[string]int{}}
}

// Add は数量を1増やす。無ければ1で追加する。
func (c *Cart) Add(productID string) {
	if c.items == nil {
		c.items = map[string]int{}
	}
	c.items[productID]++
}

// Remove は数量を1減らす。無い/0のときは何もしない。
func (c *Cart) Remove(productID string) {
	q, ok := c.items[productID]
	if !ok || q <= 0 {
		return
	}
	if q == 1 {
		delete(c.items, productID)
		return
	}
	c.items[productID] = q - 1
}

func (c *Cart) Clear() {
	c.items = map[string]int{}
}

func (c *Cart) Quantity(productID string) int {
	return c.items[productID]
}

func (c *Cart) Len() int {
	return len(c.items)
}

// Items は商品ID順のコピーを返す
func (c *Cart) Items() []Item {
	out := make([]Item, 0, len(c.items))
	for id, q := range c.items {
		out = append(out, Item{ProductID: id, Quantity: q})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}

type Item struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// CatalogEntry は集計に必要な商品情報
type CatalogEntry struct {
	ProductID string
	StoreID   string
	Name      string
	Price     decimal.Decimal
}

// Line はカート画面の1行
type Line struct {
	ProductID string          `json:"productId"`
	StoreID   string          `json:"storeId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

// Summary は catalog と突き合わせた結果。
// catalog に無い商品は一覧と合計から除外し、Excluded に数だけ残す。
type Summary struct {
	Lines    []Line          `json:"lines"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Excluded int             `json:"excluded"`
}

// Summarize はカートを catalog に照らして集計する
func (c *Cart) Summarize(catalog map[string]CatalogEntry) Summary {
	sum := Summary{Lines: []Line{}, Subtotal: decimal.Zero}

	for _, it := range c.Items() {
		p, ok := catalog[it.ProductID]
		if !ok {
			sum.Excluded++
			continue
		}
		lt := p.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
		sum.Lines = append(sum.Lines, Line{
			ProductID: it.ProductID,
			StoreID:   p.StoreID,
			Name:      p.Name,
			Quantity:  it.Quantity,
			Price:     p.Price,
			LineTotal: lt,
		})
		sum.Subtotal = sum.Subtotal.Add(lt)
	}
	return sum
}

// StoreIDs は集計行に現れる店舗ID（重複なし）
func (s Summary) StoreIDs() []string {
	seen := map[string]struct{}{}
	var out []string
	for _, l := range s.Lines {
		if _, ok := seen[l.StoreID]; ok {
			continue
		}
		seen[l.StoreID] = struct{}{}
		out = append(out, l.StoreID)
	}
	return out
}
