/*
SteadyOps - 服务器管理控制台

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU Affero General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU Affero General Public License for more details.

You should have received a copy of the GNU Affero General Public License
along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

// core/confgen/lock.go
// 按服务的应用锁

package confgen

import "sync"

// serviceLocks 按服务ID的互斥锁集合
// 配置文件和守护进程的校验/重载命令对同一服务不能并发竞争，
// 整个应用流水线期间持有对应服务的锁，保证同一服务至多一个在途应用
var serviceLocks sync.Map

// LockService 获取指定服务的应用锁
func LockService(serviceID string) {
	mu, _ := serviceLocks.LoadOrStore(serviceID, &sync.Mutex{})
	mu.(*sync.Mutex).Lock()
}

// UnlockService 释放指定服务的应用锁
func UnlockService(serviceID string) {
	if mu, ok := serviceLocks.Load(serviceID); ok {
		mu.(*sync.Mutex).Unlock()
	}
}
