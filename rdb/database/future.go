package database

import (
	"context"
	"sync"
)

// Future 一个只会完成一次的异步结果
type Future[T any] struct {
	done      chan struct{}
	mu        sync.Mutex
	value     T
	resolved  bool
	hooks     []func(T)
	callbacks []func(T)
}

// Promise Future 的写端
type Promise[T any] struct {
	future *Future[T]
}

func NewPromise[T any]() *Promise[T] {
	return &Promise[T]{future: &Future[T]{done: make(chan struct{})}}
}

func (p *Promise[T]) Future() *Future[T] {
	return p.future
}

// Resolve 完成 Future，只有第一次调用生效
func (p *Promise[T]) Resolve(v T) bool {
	f := p.future

	f.mu.Lock()
	if f.resolved {
		f.mu.Unlock()
		return false
	}
	f.value = v
	f.resolved = true
	hooks, callbacks := f.hooks, f.callbacks
	f.hooks, f.callbacks = nil, nil
	f.mu.Unlock()

	// hooks 在 done 关闭之前同步执行，等待 f 的调用方能看到 hooks 的结果
	for _, hook := range hooks {
		hook(v)
	}
	close(f.done)

	for _, cb := range callbacks {
		go cb(v)
	}
	return true
}

// Resolved 返回一个已完成的 Future
func Resolved[T any](v T) *Future[T] {
	p := NewPromise[T]()
	p.Resolve(v)
	return p.Future()
}

func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Wait 等待结果，ctx 只限制等待时间，不会取消已提交的操作
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Get 阻塞直到完成
func (f *Future[T]) Get() T {
	<-f.done
	return f.value
}

// OnComplete 注册回调，完成后在独立的 goroutine 中调用一次
func (f *Future[T]) OnComplete(cb func(T)) {
	f.mu.Lock()
	if !f.resolved {
		f.callbacks = append(f.callbacks, cb)
		f.mu.Unlock()
		return
	}
	v := f.value
	f.mu.Unlock()
	go cb(v)
}

// onResolve 注册在完成 f 的 goroutine 中同步执行的回调，f 已完成时直接在当前 goroutine 执行
func (f *Future[T]) onResolve(hook func(T)) {
	f.mu.Lock()
	if !f.resolved {
		f.hooks = append(f.hooks, hook)
		f.mu.Unlock()
		return
	}
	v := f.value
	f.mu.Unlock()
	hook(v)
}

// Then 在 f 完成后串联下一个异步操作
func Then[T, U any](f *Future[T], fn func(T) *Future[U]) *Future[U] {
	p := NewPromise[U]()
	f.OnComplete(func(v T) {
		fn(v).OnComplete(func(u U) {
			p.Resolve(u)
		})
	})
	return p.Future()
}

// Map 在 f 完成后同步转换结果
func Map[T, U any](f *Future[T], fn func(T) U) *Future[U] {
	p := NewPromise[U]()
	f.OnComplete(func(v T) {
		p.Resolve(fn(v))
	})
	return p.Future()
}

// Apply 和 Map 相同，但 fn 在完成 f 的 goroutine 中同步执行
// DB 的任务在 worker 上按提交顺序完成，同一个 DB 上的 Future 经过 Apply 后 fn 也按提交顺序执行
// fn 在 worker 上运行，不能等待同一个 DB 上的 Future
func Apply[T, U any](f *Future[T], fn func(T) U) *Future[U] {
	p := NewPromise[U]()
	f.onResolve(func(v T) {
		p.Resolve(fn(v))
	})
	return p.Future()
}
