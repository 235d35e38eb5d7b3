package pool

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewPool(t *testing.T) {
	p, err := NewPool("test", nil)
	if err != nil {
		t.Fatalf("创建池失败: %v", err)
	}
	defer p.Release()

	if p.Name() != "test" {
		t.Errorf("池名称不匹配: 期望 test, 实际 %s", p.Name())
	}
	if p.Cap() != DefaultConfig().Capacity {
		t.Errorf("池容量不匹配: 期望 %d, 实际 %d", DefaultConfig().Capacity, p.Cap())
	}
}

func TestNewPoolInvalidConfig(t *testing.T) {
	_, err := NewPool("bad", &Config{Capacity: 0})
	if !errors.Is(err, ErrInvalidPoolConfig) {
		t.Errorf("期望 ErrInvalidPoolConfig, 实际: %v", err)
	}
}

func TestPoolSubmit(t *testing.T) {
	p, err := NewPool("test", &Config{Capacity: 10, ExpiryDuration: 5 * time.Second})
	if err != nil {
		t.Fatalf("创建池失败: %v", err)
	}
	defer p.Release()

	var counter atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		if err := p.Submit(func() {
			defer wg.Done()
			counter.Add(1)
		}); err != nil {
			t.Errorf("提交任务失败: %v", err)
			wg.Done()
		}
	}

	wg.Wait()

	if counter.Load() != 100 {
		t.Errorf("任务执行数不匹配: 期望 100, 实际 %d", counter.Load())
	}
}

func TestPoolSubmitWithContext(t *testing.T) {
	p, err := NewPool("test", &Config{Capacity: 5, ExpiryDuration: 5 * time.Second})
	if err != nil {
		t.Fatalf("创建池失败: %v", err)
	}
	defer p.Release()

	done := make(chan struct{})
	if err := p.SubmitWithContext(context.Background(), func() { close(done) }); err != nil {
		t.Fatalf("提交任务失败: %v", err)
	}
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("任务未执行")
	}

	canceledCtx, cancel := context.WithCancel(context.Background())
	cancel()

	err = p.SubmitWithContext(canceledCtx, func() {
		t.Error("已取消的上下文不应执行任务")
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("期望 context.Canceled 错误, 实际: %v", err)
	}
}

func TestPoolPanicRecovery(t *testing.T) {
	caught := make(chan struct{})

	p, err := NewPool("test", &Config{
		Capacity:       5,
		ExpiryDuration: 5 * time.Second,
		PanicHandler: func(r interface{}) {
			close(caught)
		},
	})
	if err != nil {
		t.Fatalf("创建池失败: %v", err)
	}
	defer p.Release()

	if err := p.Submit(func() { panic("boom") }); err != nil {
		t.Errorf("提交任务失败: %v", err)
	}

	select {
	case <-caught:
	case <-time.After(time.Second):
		t.Fatal("panic 未被捕获")
	}
}

func TestPoolAddWorker(t *testing.T) {
	p, err := NewPool("test", &Config{Capacity: 2, ExpiryDuration: time.Second})
	if err != nil {
		t.Fatalf("创建池失败: %v", err)
	}
	defer p.Release()

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.AddWorker()
		}()
	}
	wg.Wait()

	if p.Cap() != 5 {
		t.Errorf("扩容后容量不匹配: 期望 5, 实际 %d", p.Cap())
	}
}

func TestPoolClosed(t *testing.T) {
	p, err := NewPool("test", &Config{Capacity: 5, ExpiryDuration: 5 * time.Second})
	if err != nil {
		t.Fatalf("创建池失败: %v", err)
	}

	p.Release()
	p.Release()

	err = p.Submit(func() {
		t.Error("已关闭的池不应执行任务")
	})
	if !errors.Is(err, ErrPoolClosed) {
		t.Errorf("期望 ErrPoolClosed, 实际: %v", err)
	}
}

func TestOptions(t *testing.T) {
	o := NewOptions()
	if err := o.Validate(); err != nil {
		t.Fatalf("默认配置校验失败: %v", err)
	}
	o.Capacity = 0
	if err := o.Validate(); err == nil {
		t.Error("容量为 0 应校验失败")
	}
	o.Capacity = 8
	if c := o.Config(); c.Capacity != 8 {
		t.Errorf("Config() 容量不匹配: %d", c.Capacity)
	}
}
