package main

import (
	"testing"

	"app/utils"
)

func TestCreatePagination(t *testing.T) {
	p := utils.CreatePagination(45, 2, 10)
	if p.TotalPages != 5 {
		t.Fatalf("expected 5 total pages, got %d", p.TotalPages)
	}
	if p.CurrentPage != 2 || p.PageSize != 10 || p.TotalItems != 45 {
		t.Fatalf("unexpected pagination: %+v", p)
	}
}

func TestCreatePaginationDefaults(t *testing.T) {
	p := utils.CreatePagination(3, 0, 0)
	if p.CurrentPage != 1 {
		t.Fatalf("expected default page 1, got %d", p.CurrentPage)
	}
	if p.PageSize != 10 {
		t.Fatalf("expected default page size 10, got %d", p.PageSize)
	}
	if p.TotalPages != 1 {
		t.Fatalf("expected 1 total page, got %d", p.TotalPages)
	}
}
