package setup

// Settings는 setup 폼에서 입력받는 값이다.
type Settings struct {
	// SystemFlake는 기본 패키지 scope를 제공하는 flake 경로다. 비어 있으면 nixpkgs를 사용한다.
	SystemFlake string
	// System은 식에 들어갈 target triple이다. 비어 있으면 빌드 시 값 또는 현재 플랫폼을 사용한다.
	System string
	// InstallHook이 true면 프롬프트 hook을 셸 rc 파일에 설치한다.
	InstallHook bool
}

// FormRunner는 TUI 폼 실행을 추상화하는 interface다.
// 프로덕션에서는 huh 기반 구현, 테스트에서는 mock을 사용한다.
type FormRunner interface {
	// RunSettingsForm은 설정 입력 폼을 실행한다. defaults는 기존 설정 값이다.
	RunSettingsForm(defaults Settings) (Settings, error)
}
