package utils

import "golang.org/x/crypto/bcrypt"

// bcrypt 自带盐，同一明文两次哈希结果不同
// 超过 72 字节 bcrypt 会直接报错，不能吞掉，否则会存出空哈希
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func CheckPassword(plain, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}
