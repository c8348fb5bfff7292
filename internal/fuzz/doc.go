// Package fuzztests houses Go fuzz harnesses for the tree snapshot loader.
// Its goal is to smoke test robustness and guard against panics or allocator
// explosions on arbitrary .mtree bytes.
//
// Назначение: прогонять произвольные байты через ast.DecodeSnapshot и, если
// снимок принят, через sema.Check каждого корня.
//
// Не делает: генерацию корпусов на диск, выполнение CLI.
//
// Зависимости: internal/ast, internal/sema, internal/source, internal/diag.
package fuzztests
