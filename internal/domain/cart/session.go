package cart

import "sync"

// Session はユーザー1人分のカートと適用中クーポン
type Session struct {
	Cart   *Cart
	Coupon string
}

// Sessions はユーザーごとのカート状態。
// 初回アクセスで作られ、Drop で破棄される。
type Sessions struct {
	mu   sync.Mutex
	byID map[string]*Session
}

func NewSessions() *Sessions {
	return &Sessions{byID: map[string]*Session{}}
}

// Update は userID のセッションを排他的に更新する。
// fn に渡したセッションを呼び出し元の外へ持ち出さないこと。
func (s *Sessions) Update(userID string, fn func(*Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.byID[userID]
	if !ok {
		sess = &Session{Cart: New()}
		s.byID[userID] = sess
	}
	fn(sess)
}

// Snapshot は現在の内容のコピーを返す
func (s *Sessions) Snapshot(userID string) (items []Item, coupon string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.byID[userID]
	if !ok {
		return []Item{}, ""
	}
	return sess.Cart.Items(), sess.Coupon
}

// Drop はセッションを破棄する。存在しなければ false。
func (s *Sessions) Drop(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[userID]; !ok {
		return false
	}
	delete(s.byID, userID)
	return true
}

// Settle は注文済みの分だけカートから差し引く。
// Snapshot 以降に足された数量は残る。使ったクーポンが変わっていなければ外す。
// 空になったセッションは破棄する。
func (s *Sessions) Settle(userID string, ordered []Item, coupon string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.byID[userID]
	if !ok {
		return
	}
	for _, it := range ordered {
		left := sess.Cart.items[it.ProductID] - it.Quantity
		if left > 0 {
			sess.Cart.items[it.ProductID] = left
		} else {
			delete(sess.Cart.items, it.ProductID)
		}
	}
	if sess.Coupon == coupon {
		sess.Coupon = ""
	}
	if sess.Cart.Len() == 0 && sess.Coupon == "" {
		delete(s.byID, userID)
	}
}

// FromItems はスナップショットからカートを組み立てる
func FromItems(items []Item) *Cart {
	c := New()
	for _, it := range items {
		if it.Quantity > 0 {
			c.items[it.ProductID] = it.Quantity
		}
	}
	return c
}
