package task

// prepare 准备阶段，每步执行一次
// 功能：时钟前进一步
func (ctx *Context) prepare() {
	ctx.clock.Tick()
	log.Tracef("step %d (%v)", ctx.clock.InternalStep, ctx.clock)
}

// update 更新阶段，每步执行一次
// 算法说明：
// 1. 全部车辆按当前信号进行路权判定
// 2. 全部车辆按固定顺序执行跟车与移动
// 3. 生成新车并移除驶出世界的车辆
// 说明：碰撞检测不在此处执行，由调用方在推进后单独调用DetectCollision
func (ctx *Context) update() {
	ctx.vehicleManager.Update(ctx.clock.DT)
	ctx.vehicleManager.StepPopulation(ctx.clock.InternalStep)
}

// Update 推进一步仿真
// 说明：同步执行，不启动协程也不做任何I/O；回合长度与重置由调用方决定
func (ctx *Context) Update() {
	ctx.prepare()
	ctx.update()
}
