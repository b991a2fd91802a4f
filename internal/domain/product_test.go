package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestProductJSON_Shape(t *testing.T) {
	p := Product{
		BaseModel: BaseModel{ID: 7, CreatedAt: time.Now(), UpdatedAt: time.Now()},
		Name:      "Widget",
		Price:     100,
		UserID:    3,
		User:      User{BaseModel: BaseModel{ID: 3}, Name: "Alice"},
	}

	raw, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal product: %v", err)
	}

	want := `{"id":7,"name":"Widget","price":100,"user":{"id":3,"name":"Alice"}}`
	if string(raw) != want {
		t.Fatalf("json = %s\nwant  %s", raw, want)
	}
}

func TestProductJSON_Unmarshal(t *testing.T) {
	input := `{"id":2,"name":"Gadget","price":250.5,"user":{"id":9,"name":"Bob"}}`

	var p Product
	if err := json.Unmarshal([]byte(input), &p); err != nil {
		t.Fatalf("unmarshal product: %v", err)
	}

	if p.ID != 2 || p.Name != "Gadget" || p.Price != 250.5 {
		t.Fatalf("product = %+v", p)
	}
	if p.User.ID != 9 || p.User.Name != "Bob" {
		t.Fatalf("user = %+v", p.User)
	}
}

func TestUserJSON_OnlyIDAndName(t *testing.T) {
	raw, err := json.Marshal(User{BaseModel: BaseModel{ID: 1, CreatedAt: time.Now()}, Name: "Alice"})
	if err != nil {
		t.Fatalf("marshal user: %v", err)
	}
	if string(raw) != `{"id":1,"name":"Alice"}` {
		t.Fatalf("json = %s", raw)
	}
}
