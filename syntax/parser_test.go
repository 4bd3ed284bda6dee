package syntax_test

import (
	"testing"

	"github.com/matter-labs/zinc-sub006/ast"
	"github.com/matter-labs/zinc-sub006/source"
	"github.com/matter-labs/zinc-sub006/syntax"
)

func parseOK(t *testing.T, src string) *ast.Module {
	t.Helper()
	reg := source.NewRegistry()
	id := reg.Add("t.zn", src)
	mod, err := syntax.Parse(id, src)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	return mod
}

func TestParse_fnWithArithmetic(t *testing.T) {
	mod := parseOK(t, `
fn add(a: u64, b: u64) -> u64 {
    a + b * 2
}
`)
	if len(mod.Items) != 1 {
		t.Fatalf("got %d items", len(mod.Items))
	}
	fn, ok := mod.Items[0].(*ast.FnItem)
	if !ok {
		t.Fatalf("got %T", mod.Items[0])
	}
	if fn.Name != "add" || len(fn.Params) != 2 {
		t.Fatalf("got %+v", fn)
	}
	bin, ok := fn.Body.Trailing.(*ast.BinaryExpr)
	if !ok || bin.Op != ast.OpAdd {
		t.Fatalf("expected top-level add, got %+v", fn.Body.Trailing)
	}
	rhs, ok := bin.Right.(*ast.BinaryExpr)
	if !ok || rhs.Op != ast.OpMul {
		t.Fatalf("expected b * 2 to bind tighter than +, got %+v", bin.Right)
	}
}

func TestParse_structAndContract(t *testing.T) {
	mod := parseOK(t, `
struct Point {
    x: u64,
    y: u64,
}

contract Wallet {
    balance: u64,

    pub fn get_balance(self) -> u64 {
        self.balance
    }
}
`)
	if len(mod.Items) != 2 {
		t.Fatalf("got %d items", len(mod.Items))
	}
	st, ok := mod.Items[0].(*ast.StructItem)
	if !ok || len(st.Fields) != 2 {
		t.Fatalf("got %+v", mod.Items[0])
	}
	c, ok := mod.Items[1].(*ast.ContractItem)
	if !ok || len(c.Fields) != 1 || len(c.Funcs) != 1 {
		t.Fatalf("got %+v", mod.Items[1])
	}
}

func TestParse_ifElseAndMatch(t *testing.T) {
	mod := parseOK(t, `
fn classify(x: u8) -> u8 {
    let y = if x == 0 {
        0
    } else {
        1
    };
    match y {
        0 => 10,
        _ => 20,
    }
}
`)
	fn := mod.Items[0].(*ast.FnItem)
	if len(fn.Body.Statements) != 1 {
		t.Fatalf("got %d statements", len(fn.Body.Statements))
	}
	if _, ok := fn.Body.Trailing.(*ast.MatchExpr); !ok {
		t.Fatalf("expected trailing match, got %T", fn.Body.Trailing)
	}
}

func TestParse_forLoopAndRange(t *testing.T) {
	mod := parseOK(t, `
fn sum(arr: [u64; 4]) -> u64 {
    let mut acc = 0;
    for i in 0..4 {
        acc += arr[i];
    }
    acc
}
`)
	fn := mod.Items[0].(*ast.FnItem)
	forStmt, ok := fn.Body.Statements[1].(*ast.ForStmt)
	if !ok {
		t.Fatalf("got %T", fn.Body.Statements[1])
	}
	rangeExpr, ok := forStmt.RangeExpr.(*ast.BinaryExpr)
	if !ok || rangeExpr.Op != ast.OpRange {
		t.Fatalf("got %+v", forStmt.RangeExpr)
	}
}

func TestParse_testAttribute(t *testing.T) {
	mod := parseOK(t, `
#[test]
fn it_works() {
    let x = 1;
}
`)
	fn := mod.Items[0].(*ast.FnItem)
	if !fn.IsTest {
		t.Fatalf("expected IsTest, got %+v", fn)
	}
}

func TestParse_constFnVsConstItem(t *testing.T) {
	mod := parseOK(t, `
const fn main() -> u8 {
    42
}
`)
	fn, ok := mod.Items[0].(*ast.FnItem)
	if !ok || !fn.IsConst || fn.Name != "main" {
		t.Fatalf("got %+v", mod.Items[0])
	}

	mod = parseOK(t, `
const LIMIT: u8 = 10;
`)
	c, ok := mod.Items[0].(*ast.ConstItem)
	if !ok || c.Name != "LIMIT" {
		t.Fatalf("got %+v", mod.Items[0])
	}
}

func TestParse_constFnContractMethod(t *testing.T) {
	mod := parseOK(t, `
contract Wallet {
    pub const fn deposit(self, amount: u64) -> bool {
        true
    }
}
`)
	c := mod.Items[0].(*ast.ContractItem)
	if len(c.Funcs) != 1 || !c.Funcs[0].IsConst || !c.Funcs[0].Public {
		t.Fatalf("got %+v", c.Funcs)
	}
}

func TestParse_useAndModItems(t *testing.T) {
	mod := parseOK(t, `
use std::crypto::sha256;
mod sub;
`)
	if len(mod.Items) != 2 {
		t.Fatalf("got %d items", len(mod.Items))
	}
	u, ok := mod.Items[0].(*ast.UseItem)
	if !ok || len(u.Path) != 3 {
		t.Fatalf("got %+v", mod.Items[0])
	}
	m, ok := mod.Items[1].(*ast.ModItem)
	if !ok || m.Items != nil {
		t.Fatalf("got %+v", mod.Items[1])
	}
}
